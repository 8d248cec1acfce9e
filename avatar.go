package avatar

import (
	"errors"
	"fmt"
	"image"

	"github.com/golang/glog"
)

// ErrNoFallbackAsset is returned when the default pose has no loadable
// neutral image. Every other missing asset degrades to this one, so the
// display cannot start without it.
var ErrNoFallbackAsset = errors.New("avatar: no image for the default pose and neutral expression")

// Avatar holds the nominal pose and expression selected by the user and
// combines them with the animation driver to decide what to show.
type Avatar struct {
	cfg    Config
	store  *ImageStore
	driver *Driver

	pose        PoseID
	expression  ExpressionID
	flipped     bool
	lastBinding string
}

// NewAvatar creates an avatar resting on the default pose with the neutral
// expression.
func NewAvatar(cfg Config, store *ImageStore, driver *Driver) *Avatar {
	return &Avatar{
		cfg:        cfg,
		store:      store,
		driver:     driver,
		pose:       cfg.DefaultPose,
		expression: ExpressionNeutral,
	}
}

// CheckFallback verifies that the universal fallback image loads.
func (a *Avatar) CheckFallback() error {
	if _, ok := a.store.Get(a.cfg.DefaultPose, ExpressionNeutral); !ok {
		return fmt.Errorf("%w (looked for %s)", ErrNoFallbackAsset,
			a.store.Path(ImageKey{Pose: a.cfg.DefaultPose, Expression: ExpressionNeutral}))
	}
	return nil
}

// Press applies the binding registered under name. For the current pose it
// sets the binding's expression, and pressing the same binding again
// toggles between neutral and that expression. For another pose it plays a
// transition and switches pose and expression.
func (a *Avatar) Press(name string, b Binding) {
	switch {
	case b.Pose != a.pose:
		from := a.pose
		a.pose = b.Pose
		a.expression = b.Expression
		a.driver.PlayPoseTransition(from, b.Pose)
		glog.V(1).Infof("avatar: pose %d -> %d, expression %d", from, a.pose, a.expression)
	case name == a.lastBinding:
		if a.expression == ExpressionNeutral {
			a.expression = b.Expression
		} else {
			a.expression = ExpressionNeutral
		}
		glog.V(1).Infof("avatar: toggled pose %d to expression %d", a.pose, a.expression)
	default:
		a.expression = b.Expression
		glog.V(1).Infof("avatar: pose %d expression %d", a.pose, a.expression)
	}
	a.lastBinding = name
}

// ToggleFlip mirrors the avatar horizontally. It counts as a key press, so
// the next binding press never toggles.
func (a *Avatar) ToggleFlip() {
	a.flipped = !a.flipped
	a.lastBinding = ""
	glog.V(1).Infof("avatar: flip %v", a.flipped)
}

// Update advances the animation driver.
func (a *Avatar) Update() {
	a.driver.Update()
}

// Pose returns the nominal pose.
func (a *Avatar) Pose() PoseID { return a.pose }

// Expression returns the nominal expression, ignoring blinks.
func (a *Avatar) Expression() ExpressionID { return a.expression }

// EffectiveExpression returns the expression to display, with blinks applied.
func (a *Avatar) EffectiveExpression() ExpressionID {
	return a.driver.CurrentExpression(a.expression)
}

// Flipped reports whether the avatar is mirrored.
func (a *Avatar) Flipped() bool { return a.flipped }

// Driver returns the animation driver.
func (a *Avatar) Driver() *Driver { return a.driver }

// CurrentFrame returns the transition frame to display, if any.
func (a *Avatar) CurrentFrame() (*image.RGBA, bool) {
	return a.driver.CurrentFrame()
}

// ResolveKey picks the image to display. It tries the current pose with the
// effective expression, then the default pose with that expression, then
// the default pose's neutral image.
func (a *Avatar) ResolveKey() (ImageKey, bool) {
	expr := a.EffectiveExpression()
	candidates := [...]ImageKey{
		{Pose: a.pose, Expression: expr},
		{Pose: a.cfg.DefaultPose, Expression: expr},
		{Pose: a.cfg.DefaultPose, Expression: ExpressionNeutral},
	}
	for _, k := range candidates {
		if _, ok := a.store.Get(k.Pose, k.Expression); ok {
			return k, true
		}
	}
	return ImageKey{}, false
}

// Status returns a one-line description for the control panel.
func (a *Avatar) Status() string {
	flip := "OFF"
	if a.flipped {
		flip = "ON"
	}
	return fmt.Sprintf("Current: Pose %d (%s), Exp %d, Flip: %s",
		a.pose, a.cfg.PoseName(a.pose), a.EffectiveExpression(), flip)
}
