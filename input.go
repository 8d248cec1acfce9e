package avatar

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Keys with fixed meaning. Bindings may not use them.
const (
	keyFlip       = ebiten.KeyG
	keyOutput     = ebiten.KeyO
	keyScreenshot = ebiten.KeyP
	keyQuit       = ebiten.KeyEscape
)

// cooldown gates key presses so that a held or bouncing key triggers once.
type cooldown struct {
	clock    clock.Clock
	interval time.Duration
	last     time.Time
	primed   bool
}

// allow reports whether a press is accepted now and, if so, restarts the
// cooldown.
func (c *cooldown) allow() bool {
	now := c.clock.Now()
	if c.primed && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	c.primed = true
	return true
}

// keyInput decodes keyboard state into avatar actions.
type keyInput struct {
	bindings map[ebiten.Key]string
	gate     cooldown
}

// parseBindingKeys resolves configured binding names ("Q", "Digit1", "Space")
// to ebiten keys.
func parseBindingKeys(cfg Config) (map[ebiten.Key]string, error) {
	keys := make(map[ebiten.Key]string, len(cfg.Bindings))
	for _, name := range cfg.BindingNames() {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("avatar: binding %q is not a key name: %w", name, err)
		}
		switch k {
		case keyFlip, keyOutput, keyScreenshot, keyQuit:
			return nil, fmt.Errorf("avatar: binding %q uses a reserved key", name)
		}
		if prev, ok := keys[k]; ok {
			return nil, fmt.Errorf("avatar: bindings %q and %q map to the same key", prev, name)
		}
		keys[k] = name
	}
	return keys, nil
}

func newKeyInput(cfg Config, clk clock.Clock) (*keyInput, error) {
	keys, err := parseBindingKeys(cfg)
	if err != nil {
		return nil, err
	}
	return &keyInput{
		bindings: keys,
		gate:     cooldown{clock: clk, interval: cfg.Timing.KeyCooldown},
	}, nil
}

// poll dispatches this tick's key presses to app.
func (in *keyInput) poll(app *App) {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if k == keyQuit {
			app.Quit()
			return
		}
		if !in.gate.allow() {
			continue
		}
		switch k {
		case keyFlip:
			app.ToggleFlip()
		case keyOutput:
			app.ToggleOutput()
		case keyScreenshot:
			app.Screenshot("manual")
		default:
			if name, ok := in.bindings[k]; ok {
				app.PressBinding(name)
			}
		}
	}
}
