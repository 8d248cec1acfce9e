package avatar

import (
	"image"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a renderer-bound resource derived from a decoded surface.
// *ebiten.Image satisfies it.
type Texture interface {
	Deallocate()
}

// TextureFactory derives a texture for the render surface identified by
// surface from the decoded image src.
type TextureFactory[T Texture] interface {
	NewTexture(surface uuid.UUID, src image.Image) (T, error)
}

// EbitenTextures uploads decoded surfaces to the GPU as ebiten images.
type EbitenTextures struct{}

// NewTexture implements TextureFactory.
func (EbitenTextures) NewTexture(_ uuid.UUID, src image.Image) (*ebiten.Image, error) {
	return ebiten.NewImageFromImage(src), nil
}

// CacheStats reports texture cache activity. Counters are advisory and
// monotonically increasing.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// textureHandle owns one cached texture and releases it exactly once.
type textureHandle[T Texture] struct {
	tex      T
	released bool
}

func (h *textureHandle[T]) release() {
	if h.released {
		return
	}
	h.released = true
	h.tex.Deallocate()
}

// TextureCache memoizes textures per (image, render surface). Source images
// come from an ImageStore; the cache only holds references to them.
//
// Entries are never evicted automatically. ClearSurface must be called for a
// render surface before it is destroyed, otherwise its textures stay cached
// with a dangling owner.
type TextureCache[T Texture] struct {
	store   *ImageStore
	factory TextureFactory[T]
	entries map[textureKey]*textureHandle[T]
	hits    uint64
	misses  uint64
}

// NewTextureCache creates an empty cache deriving textures with factory.
func NewTextureCache[T Texture](store *ImageStore, factory TextureFactory[T]) *TextureCache[T] {
	return &TextureCache[T]{
		store:   store,
		factory: factory,
		entries: make(map[textureKey]*textureHandle[T]),
	}
}

// Get returns the texture for (pose, expression) bound to surface. On a miss
// the source image is fetched from the store and a new texture derived. The
// second result is false when the image is missing or derivation fails;
// neither outcome is cached, so the next call retries.
func (c *TextureCache[T]) Get(pose PoseID, expression ExpressionID, surface uuid.UUID) (T, bool) {
	key := textureKey{image: ImageKey{Pose: pose, Expression: expression}, surface: surface}
	if h, ok := c.entries[key]; ok {
		c.hits++
		return h.tex, true
	}
	c.misses++

	var zero T
	src, ok := c.store.Get(pose, expression)
	if !ok {
		return zero, false
	}
	tex, err := c.factory.NewTexture(surface, src)
	if err != nil {
		glog.Warningf("avatar: failed to create texture for %v on surface %s: %v", key.image, surface, err)
		return zero, false
	}
	c.entries[key] = &textureHandle[T]{tex: tex}
	return tex, true
}

// ClearSurface releases and removes every texture bound to surface and
// returns how many were released.
func (c *TextureCache[T]) ClearSurface(surface uuid.UUID) int {
	n := 0
	for k, h := range c.entries {
		if k.surface != surface {
			continue
		}
		h.release()
		delete(c.entries, k)
		n++
	}
	if n > 0 {
		glog.V(1).Infof("avatar: released %d textures for surface %s", n, surface)
	}
	return n
}

// Close releases every cached texture. The cache is empty but usable
// afterwards.
func (c *TextureCache[T]) Close() {
	for k, h := range c.entries {
		h.release()
		delete(c.entries, k)
	}
}

// Stats returns a snapshot of the cache counters.
func (c *TextureCache[T]) Stats() CacheStats {
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Len returns the number of cached textures.
func (c *TextureCache[T]) Len() int {
	return len(c.entries)
}
