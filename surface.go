package avatar

import (
	"image"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderSurface is a persistent offscreen canvas representing one display
// (the control panel or the virtual-camera output). Its ID partitions the
// texture cache; the surface is owned by the caller and must have its
// cached textures cleared before Dispose.
type RenderSurface struct {
	id    uuid.UUID
	name  string
	image *ebiten.Image
	w, h  int

	// staging receives transition frames via WritePixels so that playing a
	// transition never allocates a GPU image per frame.
	staging    *ebiten.Image
	stagingSrc *image.RGBA
}

// NewRenderSurface creates a surface of the given size with a fresh identity.
func NewRenderSurface(name string, w, h int) *RenderSurface {
	return &RenderSurface{
		id:    uuid.New(),
		name:  name,
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// ID returns the surface identity used as a cache partition key.
func (s *RenderSurface) ID() uuid.UUID {
	return s.id
}

// Name returns the human-readable name given at creation.
func (s *RenderSurface) Name() string {
	return s.name
}

// Image returns the underlying *ebiten.Image.
func (s *RenderSurface) Image() *ebiten.Image {
	return s.image
}

// Width returns the surface width in pixels.
func (s *RenderSurface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *RenderSurface) Height() int {
	return s.h
}

// Fill fills the entire surface with c.
func (s *RenderSurface) Fill(c Color) {
	s.image.Fill(c.ToRGBA())
}

// DrawCentered draws img centered within the region [0, regionW) x [0, h),
// mirrored horizontally when flip is set. A regionW of 0 means the whole
// surface width.
func (s *RenderSurface) DrawCentered(img *ebiten.Image, regionW int, flip bool) {
	if img == nil {
		return
	}
	if regionW <= 0 {
		regionW = s.w
	}
	b := img.Bounds()
	x := float64(regionW-b.Dx()) / 2
	y := float64(s.h-b.Dy()) / 2

	var op ebiten.DrawImageOptions
	if flip {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(b.Dx()), 0)
	}
	op.GeoM.Translate(x, y)
	s.image.DrawImage(img, &op)
}

// DrawFrame uploads a CPU-side transition frame to the surface's staging
// image, re-uploading only when the frame changes, and draws it centered.
func (s *RenderSurface) DrawFrame(frame *image.RGBA, regionW int, flip bool) {
	if frame == nil {
		return
	}
	if frame != s.stagingSrc {
		b := frame.Bounds()
		if s.staging == nil || s.staging.Bounds().Dx() != b.Dx() || s.staging.Bounds().Dy() != b.Dy() {
			if s.staging != nil {
				s.staging.Deallocate()
			}
			s.staging = ebiten.NewImage(b.Dx(), b.Dy())
		}
		s.staging.WritePixels(frame.Pix)
		s.stagingSrc = frame
	}
	s.DrawCentered(s.staging, regionW, flip)
}

// Dispose deallocates the surface images. The surface must not be used
// afterwards.
func (s *RenderSurface) Dispose() {
	if s.staging != nil {
		s.staging.Deallocate()
		s.staging = nil
		s.stagingSrc = nil
	}
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// Disposed reports whether Dispose has been called.
func (s *RenderSurface) Disposed() bool {
	return s.image == nil
}
