package avatar

import (
	"reflect"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestOverlayRefreshInterval(t *testing.T) {
	clk := clock.NewMock()
	o := newOverlay(DefaultConfig(), clk)

	if !o.refreshDue() {
		t.Fatal("first readout not due")
	}
	o.fps = "FPS: 60.0"

	// Many draws within the interval never refresh, however fast they come.
	for i := 0; i < 100; i++ {
		clk.Add(4 * time.Millisecond)
		if o.refreshDue() {
			t.Fatalf("refresh due after %v", time.Duration(i+1)*4*time.Millisecond)
		}
	}
	clk.Add(overlayRefresh)
	if !o.refreshDue() {
		t.Error("refresh not due after the interval")
	}
}

func TestControlLines(t *testing.T) {
	want := []string{
		"Controls:",
		"Q,A,Z: Pose 1 (santai)",
		"W,S,X: Pose 3 (satu tangan)",
		"E,D,C: Pose 4 (belakang tangan)",
		"R,F,V: Pose 6 (wawa)",
		"G: Flip",
		"O: Toggle output",
		"P: Screenshot",
		"ESC: Exit",
	}
	if got := controlLines(DefaultConfig()); !reflect.DeepEqual(got, want) {
		t.Errorf("controlLines = %q, want %q", got, want)
	}
}
