package avatar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []PoseID{1, 3, 4, 6}, cfg.PoseIDs())
	assert.Len(t, cfg.ImageKeys(), 16)
	assert.Equal(t, Binding{Pose: 4, Expression: 3}, cfg.Bindings["D"])
	assert.Equal(t, ColorChromaKey, cfg.BackgroundColor())

	dc := cfg.DriverConfig()
	assert.Equal(t, 16*time.Millisecond, dc.FrameDuration)
	assert.Equal(t, ExpressionID(3), dc.BlinkExpression)
	assert.Equal(t, PolicyPreempt, dc.Policy)

	tc := cfg.TransitionConfig()
	assert.Equal(t, 8, tc.Frames)
	assert.Equal(t, 15.0, tc.JumpHeight)
}

func TestParseConfigMergesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
model_dir: assets/model
timing:
  blink_interval: 5s
transition:
  frames: 12
  policy: ignore
background: "#0000ff"
`))
	require.NoError(t, err)

	assert.Equal(t, "assets/model", cfg.ModelDir)
	assert.Equal(t, 5*time.Second, cfg.Timing.BlinkInterval)
	assert.Equal(t, 150*time.Millisecond, cfg.Timing.BlinkDuration, "unset fields keep defaults")
	assert.Equal(t, 12, cfg.Transition.Frames)
	assert.Equal(t, PolicyIgnore, cfg.DriverConfig().Policy)
	assert.Equal(t, Color{0, 0, 1, 1}, cfg.BackgroundColor())
	assert.Len(t, cfg.Bindings, 12)
}

func TestParseConfigKeepsExplicitZeros(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
timing:
  blink_variation: 0s
  key_cooldown: 0s
transition:
  jump_height: 0
`))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Timing.BlinkVariation)
	assert.Equal(t, time.Duration(0), cfg.Timing.KeyCooldown)
	assert.Equal(t, 0.0, cfg.Transition.JumpHeight)
	assert.Equal(t, 3*time.Second, cfg.Timing.BlinkInterval, "sibling keys keep defaults")
	assert.Equal(t, 8, cfg.Transition.Frames, "sibling keys keep defaults")
	assert.Equal(t, 0.0, cfg.TransitionConfig().JumpHeight)
}

func TestParseConfigReplacesMaps(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
default_pose: 2
expressions: 3
poses:
  2: standing
  5: sitting
bindings:
  "1": {pose: 2, expression: 2}
  "2": {pose: 5, expression: 3}
`))
	require.NoError(t, err)

	assert.Equal(t, []PoseID{2, 5}, cfg.PoseIDs())
	assert.Equal(t, "sitting", cfg.PoseName(5))
	assert.Equal(t, "7", cfg.PoseName(7))
	assert.Equal(t, []string{"1", "2"}, cfg.BindingNames())
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "poses: ["},
		{"unknown default pose", "default_pose: 9"},
		{"blink expression out of range", "blink_expression: 7"},
		{"too few frames", "transition: {frames: 1}"},
		{"negative jump", "transition: {jump_height: -3}"},
		{"unknown policy", "transition: {policy: queue}"},
		{"bad color", "background: green"},
		{"binding to unknown pose", `bindings: {"Q": {pose: 2, expression: 1}}`},
		{"binding expression out of range", `bindings: {"Q": {pose: 1, expression: 5}}`},
		{"negative timing", "timing: {key_cooldown: -1s}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: {width: 640, height: 480}\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, WindowConfig{Width: 640, Height: 480}, cfg.Window)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBindingNamesOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"Q", "A", "Z", "W", "S", "X", "E", "D", "C", "R", "F", "V"},
		DefaultConfig().BindingNames())
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff000080")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.InDelta(t, 128.0/255, c.A, 1e-9)

	c, err = ParseHexColor("00ff00")
	require.NoError(t, err)
	assert.Equal(t, ColorChromaKey, c)

	for _, s := range []string{"", "#fff", "#gg0000", "#00ff00ff00"} {
		_, err := ParseHexColor(s)
		assert.Error(t, err, "ParseHexColor(%q)", s)
	}
}
