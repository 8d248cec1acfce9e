package avatar

import (
	"github.com/tanema/gween/ease"
)

// MotionCurve shapes the vertical arc of a pose transition. Rise runs over
// the first half of the transition from 0 to the peak height, Fall over the
// second half from the peak back to 0. Both use gween easing signatures
// (t, begin, change, duration).
type MotionCurve struct {
	Rise ease.TweenFunc
	Fall ease.TweenFunc
}

// SineJump is the default curve: a symmetric h·sin(pπ) arc. OutSine over the
// first half equals sin(pπ) and InSine over the second half equals
// cos((p-½)π), so the halves meet at the peak with zero slope.
var SineJump = MotionCurve{Rise: ease.OutSine, Fall: ease.InSine}

// Offset returns the lift, in pixels, at progress p in [0, 1] for a peak
// height h. Progress outside [0, 1] is clamped.
func (m MotionCurve) Offset(p, h float64) float64 {
	rise, fall := m.Rise, m.Fall
	if rise == nil {
		rise = SineJump.Rise
	}
	if fall == nil {
		fall = SineJump.Fall
	}

	p = clamp01(p)
	if p < 0.5 {
		return float64(rise(float32(p), 0, float32(h), 0.5))
	}
	return float64(fall(float32(p-0.5), float32(h), float32(-h), 0.5))
}

// JumpOffset is SineJump.Offset.
func JumpOffset(p, h float64) float64 {
	return SineJump.Offset(p, h)
}
