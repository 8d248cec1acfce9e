package avatar

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/google/uuid"
)

// PoseID identifies a full-body stance of the avatar. Valid values are the
// keys of Config.Poses and need not be contiguous.
type PoseID int

// ExpressionID identifies a facial variant of a pose.
type ExpressionID int

// ExpressionNeutral is the conventional resting expression of every pose.
// Transitions are always synthesized from the neutral images.
const ExpressionNeutral ExpressionID = 1

// ImageKey identifies one static image asset.
type ImageKey struct {
	Pose       PoseID
	Expression ExpressionID
}

func (k ImageKey) String() string {
	return fmt.Sprintf("%d-%d", k.Pose, k.Expression)
}

// TransitionKey identifies one synthesized pose transition. It is ordered:
// {1, 3} and {3, 1} are different animations. Start must differ from End.
type TransitionKey struct {
	Start, End PoseID
}

func (k TransitionKey) String() string {
	return fmt.Sprintf("%d->%d", k.Start, k.End)
}

// textureKey partitions derived textures by the render surface that owns them.
type textureKey struct {
	image   ImageKey
	surface uuid.UUID
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to an image.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorChromaKey is the default compositing background, pure green for
	// downstream keying of the virtual-camera output.
	ColorChromaKey = Color{0, 1, 0, 1}

	// ColorPanel is the control panel background.
	ColorPanel = Color{0, 0, 0, 1}
)

// ToRGBA converts c to a premultiplied color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	a := uint8(255)
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("avatar: invalid color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("avatar: invalid color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("avatar: invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
