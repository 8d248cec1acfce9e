package avatar

import (
	"image"
	"math"

	"github.com/golang/glog"
	"golang.org/x/image/draw"
)

// TransitionConfig controls pose transition synthesis. Every transition has
// the same frame count and timing; only the pictures differ.
type TransitionConfig struct {
	// Frames is the number of frames per transition. Values below 2 are
	// raised to 2 so that the first and last frames are distinct.
	Frames int
	// JumpHeight is the peak lift in pixels.
	JumpHeight float64
	// Background fills every frame before the pose image is composited.
	Background Color
	// Curve shapes the lift over the transition. Zero value is SineJump.
	Curve MotionCurve
}

// DefaultTransitionConfig returns 8 frames, a 15 pixel jump, the chroma key
// background and the sine arc.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		Frames:     8,
		JumpHeight: 15,
		Background: ColorChromaKey,
		Curve:      SineJump,
	}
}

// TransitionFrame is one composited frame of a pose transition.
type TransitionFrame struct {
	Image *image.RGBA
	// Progress is i/(N-1) for frame i of N.
	Progress float64
	// Offset is the lift applied to the source image at this frame.
	Offset float64
	// Source is the neutral image composited into this frame.
	Source ImageKey
	// Dest is where Source was drawn within Image.
	Dest image.Rectangle
}

// Synthesizer builds and memoizes pose transitions from the neutral images
// of an ImageStore. The avatar rises on the start pose, cuts to the end pose
// at the apex (no cross-fade) and lands.
type Synthesizer struct {
	store  *ImageStore
	cfg    TransitionConfig
	frames map[TransitionKey][]TransitionFrame
}

// NewSynthesizer creates a synthesizer reading source images from store.
func NewSynthesizer(store *ImageStore, cfg TransitionConfig) *Synthesizer {
	if cfg.Frames < 2 {
		cfg.Frames = 2
	}
	if cfg.JumpHeight < 0 {
		cfg.JumpHeight = -cfg.JumpHeight
	}
	return &Synthesizer{
		store:  store,
		cfg:    cfg,
		frames: make(map[TransitionKey][]TransitionFrame),
	}
}

// Config returns the effective configuration.
func (s *Synthesizer) Config() TransitionConfig {
	return s.cfg
}

// Frames returns the frames for the transition from start to end,
// synthesizing them on first use. It returns nil when start equals end,
// which callers must not request, and when either neutral image is
// missing. A missing image is not remembered, so the transition is
// retried once the asset appears.
func (s *Synthesizer) Frames(start, end PoseID) []TransitionFrame {
	if start == end {
		glog.Errorf("avatar: rejected transition %d->%d: start and end pose are equal", start, end)
		return nil
	}
	key := TransitionKey{Start: start, End: end}
	if f, ok := s.frames[key]; ok {
		return f
	}

	from, ok := s.store.Get(start, ExpressionNeutral)
	if !ok {
		glog.Warningf("avatar: cannot synthesize transition %v: missing image for pose %d", key, start)
		return nil
	}
	to, ok := s.store.Get(end, ExpressionNeutral)
	if !ok {
		glog.Warningf("avatar: cannot synthesize transition %v: missing image for pose %d", key, end)
		return nil
	}

	f := s.synthesize(key, from, to)
	s.frames[key] = f
	glog.V(1).Infof("avatar: generated %d frames for transition %v", len(f), key)
	return f
}

// Prewarm synthesizes every ordered pair of poses and returns how many
// transitions are available afterwards.
func (s *Synthesizer) Prewarm(poses []PoseID) int {
	n := 0
	for _, a := range poses {
		for _, b := range poses {
			if a == b {
				continue
			}
			if len(s.Frames(a, b)) > 0 {
				n++
			}
		}
	}
	return n
}

// Len returns the number of memoized transitions.
func (s *Synthesizer) Len() int {
	return len(s.frames)
}

func (s *Synthesizer) synthesize(key TransitionKey, from, to image.Image) []TransitionFrame {
	fb, tb := from.Bounds(), to.Bounds()
	maxW := max(fb.Dx(), tb.Dx())
	maxH := max(fb.Dy(), tb.Dy())

	// Headroom above and below keeps the resting image centered in the
	// canvas and the peak of the arc inside it.
	headroom := int(math.Ceil(s.cfg.JumpHeight))
	canvasRect := image.Rect(0, 0, maxW, maxH+2*headroom)
	bg := image.NewUniform(s.cfg.Background.ToRGBA())

	n := s.cfg.Frames
	out := make([]TransitionFrame, n)
	for i := range n {
		p := float64(i) / float64(n-1)
		off := s.cfg.Curve.Offset(p, s.cfg.JumpHeight)

		src, srcKey := from, ImageKey{Pose: key.Start, Expression: ExpressionNeutral}
		if p >= 0.5 {
			src, srcKey = to, ImageKey{Pose: key.End, Expression: ExpressionNeutral}
		}

		canvas := image.NewRGBA(canvasRect)
		draw.Draw(canvas, canvasRect, bg, image.Point{}, draw.Src)

		sb := src.Bounds()
		x := (maxW - sb.Dx()) / 2
		y := headroom + (maxH-sb.Dy())/2 - int(math.Round(off))
		dest := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
		draw.Draw(canvas, dest, src, sb.Min, draw.Over)

		out[i] = TransitionFrame{
			Image:    canvas,
			Progress: p,
			Offset:   off,
			Source:   srcKey,
			Dest:     dest,
		}
	}
	return out
}
