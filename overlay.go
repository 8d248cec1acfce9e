package avatar

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/samber/lo"
)

const (
	overlayMargin     = 20
	overlayControlsY  = 70
	overlayLineHeight = 25
	overlayRefresh    = 500 * time.Millisecond // between FPS readouts
)

// overlay draws the status line, the controls guide and the FPS readout on
// the control panel using ebitenutil's debug font.
type overlay struct {
	clock    clock.Clock
	controls []string
	fps      string
	updated  time.Time
}

func newOverlay(cfg Config, clk clock.Clock) *overlay {
	return &overlay{clock: clk, controls: controlLines(cfg)}
}

// refreshDue reports whether the FPS readout is stale and, if so, marks it
// refreshed now.
func (o *overlay) refreshDue() bool {
	now := o.clock.Now()
	if o.fps != "" && now.Sub(o.updated) < overlayRefresh {
		return false
	}
	o.updated = now
	return true
}

// controlLines lists the bindings grouped by pose, e.g. "Q,A,Z: Pose 1 (santai)".
func controlLines(cfg Config) []string {
	byPose := lo.GroupBy(cfg.BindingNames(), func(name string) PoseID {
		return cfg.Bindings[name].Pose
	})
	lines := []string{"Controls:"}
	for _, pose := range cfg.PoseIDs() {
		names, ok := byPose[pose]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: Pose %d (%s)", strings.Join(names, ","), pose, cfg.PoseName(pose)))
	}
	return append(lines, "G: Flip", "O: Toggle output", "P: Screenshot", "ESC: Exit")
}

func (o *overlay) draw(s *RenderSurface, a *Avatar, stats CacheStats) {
	if o.refreshDue() {
		o.fps = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	}

	img := s.Image()
	ebitenutil.DebugPrintAt(img, a.Status(), overlayMargin, overlayMargin)

	x := s.Width() / 2
	y := overlayControlsY
	for _, line := range o.controls {
		ebitenutil.DebugPrintAt(img, line, x, y)
		y += overlayLineHeight
	}

	bottom := s.Height() - overlayMargin - 2*overlayLineHeight
	ebitenutil.DebugPrintAt(img, o.fps, overlayMargin, bottom)
	ebitenutil.DebugPrintAt(img, fmt.Sprintf("Textures: %d  hits %d  misses %d",
		stats.Entries, stats.Hits, stats.Misses), overlayMargin, bottom+overlayLineHeight)
}
