package avatar

import (
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
)

// AnimationState is the active state of a Driver.
type AnimationState uint8

const (
	StateIdle           AnimationState = iota // nothing playing
	StatePoseTransition                       // playing synthesized transition frames
	StateBlink                                // expression overridden with closed eyes
)

func (s AnimationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePoseTransition:
		return "pose-transition"
	case StateBlink:
		return "blink"
	default:
		return "unknown"
	}
}

// TransitionPolicy decides what happens when a pose transition is requested
// while another one is still playing.
type TransitionPolicy uint8

const (
	// PolicyPreempt restarts playback with the new endpoints.
	PolicyPreempt TransitionPolicy = iota
	// PolicyIgnore keeps the in-flight transition and drops the request.
	PolicyIgnore
)

// FrameSource supplies transition frames. *Synthesizer implements it.
type FrameSource interface {
	Frames(start, end PoseID) []TransitionFrame
}

// DriverConfig holds the fixed timing of a Driver.
type DriverConfig struct {
	// FrameDuration is the cadence at which animation frames advance.
	FrameDuration time.Duration
	// BlinkDuration is how long the eyes stay closed. It is converted to a
	// whole number of frames, at least one.
	BlinkDuration time.Duration
	// BlinkExpression is the eyes-closed expression shown while blinking.
	BlinkExpression ExpressionID
	// Policy resolves overlapping pose transition requests.
	Policy TransitionPolicy
}

// DefaultDriverConfig returns a 16ms cadence, 150ms blinks using
// expression 3, and preempting transitions.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		FrameDuration:   16 * time.Millisecond,
		BlinkDuration:   150 * time.Millisecond,
		BlinkExpression: 3,
		Policy:          PolicyPreempt,
	}
}

// Driver is the animation state machine. Exactly one of idle, pose
// transition or blink is active at a time; both active states are one-shot
// and return to idle after their last frame.
//
// A blink that becomes due while a pose transition plays is deferred, not
// dropped: the scheduler keeps reporting it and it starts in the Update that
// ends the transition. A pose transition requested during a blink ends the
// blink first.
//
// Driver is not safe for concurrent use; it belongs to the render loop.
type Driver struct {
	source FrameSource
	blink  *BlinkScheduler
	clock  clock.Clock
	cfg    DriverConfig

	state       AnimationState
	transition  TransitionKey
	frames      []TransitionFrame
	frameIndex  int
	totalFrames int
	frameStart  time.Time
}

// NewDriver creates an idle driver. A nil clk uses the wall clock.
func NewDriver(source FrameSource, blink *BlinkScheduler, clk clock.Clock, cfg DriverConfig) *Driver {
	if clk == nil {
		clk = clock.New()
	}
	if cfg.FrameDuration <= 0 {
		cfg.FrameDuration = DefaultDriverConfig().FrameDuration
	}
	return &Driver{
		source: source,
		blink:  blink,
		clock:  clk,
		cfg:    cfg,
		state:  StateIdle,
	}
}

// blinkFrames converts the blink duration to frames at the fixed cadence.
func (d *Driver) blinkFrames() int {
	return max(int(d.cfg.BlinkDuration/d.cfg.FrameDuration), 1)
}

// PlayPoseTransition starts the transition from one pose to another. It is a
// no-op when the poses are equal. When no frames can be produced (a neutral
// image is missing) the driver stays or returns to idle.
func (d *Driver) PlayPoseTransition(from, to PoseID) {
	if from == to {
		return
	}
	if d.state == StatePoseTransition && d.cfg.Policy == PolicyIgnore {
		glog.V(1).Infof("avatar: ignoring transition %d->%d while %v plays", from, to, d.transition)
		return
	}
	if d.state == StateBlink {
		d.StopBlink()
	}

	frames := d.source.Frames(from, to)
	if len(frames) == 0 {
		glog.Warningf("avatar: no frames for transition %d->%d", from, to)
		d.reset()
		return
	}

	d.state = StatePoseTransition
	d.transition = TransitionKey{Start: from, End: to}
	d.frames = frames
	d.frameIndex = 0
	d.totalFrames = len(frames)
	d.frameStart = d.clock.Now()
	glog.V(1).Infof("avatar: starting transition %v (%d frames)", d.transition, d.totalFrames)
}

// StartBlink begins a blink episode. It is a no-op while blinking and while
// a pose transition plays.
func (d *Driver) StartBlink() {
	if d.state == StateBlink || d.state == StatePoseTransition {
		return
	}
	d.state = StateBlink
	d.frames = nil
	d.frameIndex = 0
	d.totalFrames = d.blinkFrames()
	d.frameStart = d.clock.Now()
	if d.blink != nil {
		d.blink.begin()
	}
}

// StopBlink ends a blink episode and schedules the next one. No-op when not
// blinking.
func (d *Driver) StopBlink() {
	if d.state != StateBlink {
		return
	}
	d.reset()
	if d.blink != nil {
		d.blink.end()
	}
}

// Update advances the active animation by at most one frame when a full
// frame duration has elapsed since the last advance. Slow callers fall
// behind rather than skip frames. Every call also checks the blink
// scheduler.
func (d *Driver) Update() {
	if d.state != StateIdle {
		now := d.clock.Now()
		if now.Sub(d.frameStart) >= d.cfg.FrameDuration {
			d.frameIndex++
			d.frameStart = now
			if d.frameIndex >= d.totalFrames {
				switch d.state {
				case StatePoseTransition:
					glog.V(1).Infof("avatar: transition %v completed", d.transition)
					d.reset()
				case StateBlink:
					d.StopBlink()
				}
			}
		}
	}

	if d.blink != nil && d.blink.ShouldBlink() {
		d.StartBlink()
	}
}

func (d *Driver) reset() {
	d.state = StateIdle
	d.frames = nil
	d.frameIndex = 0
	d.totalFrames = 0
}

// CurrentFrame returns the transition frame to display. Blinks are not
// pre-rendered, so it reports false outside a pose transition.
func (d *Driver) CurrentFrame() (*image.RGBA, bool) {
	if d.state != StatePoseTransition || d.frameIndex >= len(d.frames) {
		return nil, false
	}
	return d.frames[d.frameIndex].Image, true
}

// CurrentExpression filters the nominal expression: while blinking it
// returns the eyes-closed expression, otherwise base unchanged.
func (d *Driver) CurrentExpression(base ExpressionID) ExpressionID {
	if d.state == StateBlink {
		return d.cfg.BlinkExpression
	}
	return base
}

// IsAnimationPlaying reports whether a transition or blink is active.
func (d *Driver) IsAnimationPlaying() bool {
	return d.state != StateIdle
}

// IsBlinking reports whether a blink episode is active.
func (d *Driver) IsBlinking() bool {
	return d.state == StateBlink
}

// State returns the active state.
func (d *Driver) State() AnimationState {
	return d.state
}

// FrameIndex returns the current frame within the active state.
func (d *Driver) FrameIndex() int {
	return d.frameIndex
}

// TotalFrames returns the frame count of the active state, 0 when idle.
func (d *Driver) TotalFrames() int {
	return d.totalFrames
}

// Transition returns the endpoints of the playing transition. Only
// meaningful in StatePoseTransition.
func (d *Driver) Transition() TransitionKey {
	return d.transition
}

// Blink returns the scheduler driving blink episodes.
func (d *Driver) Blink() *BlinkScheduler {
	return d.blink
}
