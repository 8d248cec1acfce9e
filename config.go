package avatar

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Binding maps an input key to a pose and expression.
type Binding struct {
	Pose       PoseID       `yaml:"pose"`
	Expression ExpressionID `yaml:"expression"`
}

// TimingConfig holds the fixed cadences of the display.
type TimingConfig struct {
	Frame          time.Duration `yaml:"frame,omitempty"`           // animation frame cadence (default 16ms)
	BlinkDuration  time.Duration `yaml:"blink_duration,omitempty"`  // eyes-closed time (default 150ms)
	BlinkInterval  time.Duration `yaml:"blink_interval,omitempty"`  // base time between blinks (default 3s)
	BlinkVariation time.Duration `yaml:"blink_variation,omitempty"` // random jitter bound (default 1s)
	KeyCooldown    time.Duration `yaml:"key_cooldown,omitempty"`    // minimum time between key presses (default 100ms)
}

// TransitionSettings configures pose transitions.
type TransitionSettings struct {
	Frames     int     `yaml:"frames,omitempty"`      // frames per transition (default 8)
	JumpHeight float64 `yaml:"jump_height,omitempty"` // peak lift in pixels (default 15)
	Policy     string  `yaml:"policy,omitempty"`      // "preempt" (default) or "ignore"
	Prewarm    bool    `yaml:"prewarm,omitempty"`     // synthesize every pair at startup
}

// WindowConfig sizes each render surface.
type WindowConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Config is the immutable configuration of the avatar display. It is loaded
// once and passed by value into the components that need it.
type Config struct {
	ModelDir        string             `yaml:"model_dir,omitempty"`
	DefaultPose     PoseID             `yaml:"default_pose,omitempty"`
	Poses           map[PoseID]string  `yaml:"poses,omitempty"`
	Expressions     int                `yaml:"expressions,omitempty"`
	BlinkExpression ExpressionID       `yaml:"blink_expression,omitempty"`
	Timing          TimingConfig       `yaml:"timing,omitempty"`
	Transition      TransitionSettings `yaml:"transition,omitempty"`
	Background      string             `yaml:"background,omitempty"`
	Window          WindowConfig       `yaml:"window,omitempty"`
	ScreenshotDir   string             `yaml:"screenshot_dir,omitempty"`
	Bindings        map[string]Binding `yaml:"bindings,omitempty"`
}

// DefaultConfig returns the stock configuration: four poses with four
// expressions each, bound to the Q/A/Z, W/S/X, E/D/C and R/F/V columns.
func DefaultConfig() Config {
	return Config{
		ModelDir:        "model",
		DefaultPose:     1,
		Poses:           defaultPoses(),
		Expressions:     4,
		BlinkExpression: 3,
		Timing: TimingConfig{
			Frame:          16 * time.Millisecond,
			BlinkDuration:  150 * time.Millisecond,
			BlinkInterval:  3000 * time.Millisecond,
			BlinkVariation: 1000 * time.Millisecond,
			KeyCooldown:    100 * time.Millisecond,
		},
		Transition: TransitionSettings{
			Frames:     8,
			JumpHeight: 15,
			Policy:     "preempt",
		},
		Background:    "#00ff00",
		Window:        WindowConfig{Width: 800, Height: 600},
		ScreenshotDir: "screenshots",
		Bindings:      defaultBindings(),
	}
}

func defaultPoses() map[PoseID]string {
	return map[PoseID]string{
		1: "santai",
		3: "satu tangan",
		4: "belakang tangan",
		6: "wawa",
	}
}

func defaultBindings() map[string]Binding {
	return map[string]Binding{
		"Q": {1, 2}, "A": {1, 3}, "Z": {1, 4},
		"W": {3, 2}, "S": {3, 3}, "X": {3, 4},
		"E": {4, 2}, "D": {4, 3}, "C": {4, 4},
		"R": {6, 2}, "F": {6, 3}, "V": {6, 4},
	}
}

// LoadConfig reads a YAML configuration file. Fields left out of the file
// keep their defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("avatar: failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration data over DefaultConfig and
// validates the result. Keys present in the data override the defaults,
// including explicit zero values. The poses and bindings maps are replaced
// as a whole rather than merged key by key.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	cfg.Poses, cfg.Bindings = nil, nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("avatar: failed to parse config: %w", err)
	}
	if cfg.Poses == nil {
		cfg.Poses = defaultPoses()
	}
	if cfg.Bindings == nil {
		cfg.Bindings = defaultBindings()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.ModelDir == "" {
		return fmt.Errorf("avatar: model_dir must not be empty")
	}
	if len(c.Poses) == 0 {
		return fmt.Errorf("avatar: no poses defined")
	}
	for id := range c.Poses {
		if id <= 0 {
			return fmt.Errorf("avatar: pose ids must be positive, got %d", id)
		}
	}
	if _, ok := c.Poses[c.DefaultPose]; !ok {
		return fmt.Errorf("avatar: default_pose %d is not a configured pose", c.DefaultPose)
	}
	if c.Expressions < 1 {
		return fmt.Errorf("avatar: expressions must be >= 1, got %d", c.Expressions)
	}
	if c.BlinkExpression < 1 || int(c.BlinkExpression) > c.Expressions {
		return fmt.Errorf("avatar: blink_expression %d out of range 1..%d", c.BlinkExpression, c.Expressions)
	}
	if c.Timing.Frame <= 0 {
		return fmt.Errorf("avatar: timing.frame must be > 0, got %v", c.Timing.Frame)
	}
	if c.Timing.BlinkDuration < 0 || c.Timing.BlinkInterval < 0 || c.Timing.BlinkVariation < 0 || c.Timing.KeyCooldown < 0 {
		return fmt.Errorf("avatar: timing values must not be negative")
	}
	if c.Transition.Frames < 2 {
		return fmt.Errorf("avatar: transition.frames must be >= 2, got %d", c.Transition.Frames)
	}
	if c.Transition.JumpHeight < 0 {
		return fmt.Errorf("avatar: transition.jump_height must be >= 0, got %v", c.Transition.JumpHeight)
	}
	if _, err := parsePolicy(c.Transition.Policy); err != nil {
		return err
	}
	if _, err := ParseHexColor(c.Background); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("avatar: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	for name, b := range c.Bindings {
		if _, ok := c.Poses[b.Pose]; !ok {
			return fmt.Errorf("avatar: binding %q references unknown pose %d", name, b.Pose)
		}
		if b.Expression < 1 || int(b.Expression) > c.Expressions {
			return fmt.Errorf("avatar: binding %q expression %d out of range 1..%d", name, b.Expression, c.Expressions)
		}
	}
	return nil
}

func parsePolicy(s string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preempt":
		return PolicyPreempt, nil
	case "ignore":
		return PolicyIgnore, nil
	default:
		return 0, fmt.Errorf("avatar: unknown transition.policy %q (want preempt or ignore)", s)
	}
}

// PoseIDs returns the configured poses in ascending order.
func (c Config) PoseIDs() []PoseID {
	ids := lo.Keys(c.Poses)
	slices.Sort(ids)
	return ids
}

// PoseName returns the display name of a pose, or its number when unnamed.
func (c Config) PoseName(id PoseID) string {
	if name, ok := c.Poses[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("%d", id)
}

// ImageKeys enumerates every (pose, expression) the configuration can show.
func (c Config) ImageKeys() []ImageKey {
	return lo.FlatMap(c.PoseIDs(), func(p PoseID, _ int) []ImageKey {
		return lo.Times(c.Expressions, func(i int) ImageKey {
			return ImageKey{Pose: p, Expression: ExpressionID(i + 1)}
		})
	})
}

// BindingNames returns the binding key names in a stable order: grouped by
// pose, then by expression.
func (c Config) BindingNames() []string {
	names := lo.Keys(c.Bindings)
	slices.SortFunc(names, func(a, b string) int {
		ba, bb := c.Bindings[a], c.Bindings[b]
		if ba.Pose != bb.Pose {
			return int(ba.Pose - bb.Pose)
		}
		if ba.Expression != bb.Expression {
			return int(ba.Expression - bb.Expression)
		}
		return strings.Compare(a, b)
	})
	return names
}

// TransitionConfig derives the synthesizer configuration.
func (c Config) TransitionConfig() TransitionConfig {
	bg, err := ParseHexColor(c.Background)
	if err != nil {
		bg = ColorChromaKey
	}
	return TransitionConfig{
		Frames:     c.Transition.Frames,
		JumpHeight: c.Transition.JumpHeight,
		Background: bg,
		Curve:      SineJump,
	}
}

// DriverConfig derives the animation driver configuration.
func (c Config) DriverConfig() DriverConfig {
	policy, err := parsePolicy(c.Transition.Policy)
	if err != nil {
		policy = PolicyPreempt
	}
	return DriverConfig{
		FrameDuration:   c.Timing.Frame,
		BlinkDuration:   c.Timing.BlinkDuration,
		BlinkExpression: c.BlinkExpression,
		Policy:          policy,
	}
}

// BackgroundColor returns the parsed chroma key color.
func (c Config) BackgroundColor() Color {
	bg, err := ParseHexColor(c.Background)
	if err != nil {
		return ColorChromaKey
	}
	return bg
}
