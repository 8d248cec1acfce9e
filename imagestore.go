package avatar

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for image.Decode
	"io/fs"
	"os"

	"github.com/golang/glog"
)

// ImageLoader decodes the asset stored at path.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// FSLoader decodes images from a file system. Any format registered with
// the image package is accepted; the model directory ships PNGs.
type FSLoader struct {
	FS fs.FS
}

// NewDirLoader returns an FSLoader rooted at the model directory dir.
func NewDirLoader(dir string) FSLoader {
	return FSLoader{FS: os.DirFS(dir)}
}

// Load opens and decodes path. Missing files are reported with an error
// wrapping fs.ErrNotExist.
func (l FSLoader) Load(path string) (image.Image, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("avatar: decode %s: %w", path, err)
	}
	return img, nil
}

// ImageStore loads and owns decoded image surfaces keyed by (pose, expression).
// Surfaces are loaded on first request and stay resident for the life of the
// store. Callers must treat returned images as read-only.
//
// Load failures are not cached: a key that failed is retried on the next
// request, so assets placed in the model directory later are picked up.
type ImageStore struct {
	loader ImageLoader
	images map[ImageKey]image.Image
}

// NewImageStore creates an empty store backed by loader.
func NewImageStore(loader ImageLoader) *ImageStore {
	return &ImageStore{
		loader: loader,
		images: make(map[ImageKey]image.Image),
	}
}

// Path returns the asset path for key, relative to the model directory.
func (s *ImageStore) Path(key ImageKey) string {
	return fmt.Sprintf("%d-%d.png", key.Pose, key.Expression)
}

// Get returns the decoded surface for (pose, expression), loading it on
// first use. The second result is false when the asset is missing or
// cannot be decoded.
func (s *ImageStore) Get(pose PoseID, expression ExpressionID) (image.Image, bool) {
	key := ImageKey{Pose: pose, Expression: expression}
	if img, ok := s.images[key]; ok {
		return img, true
	}

	path := s.Path(key)
	img, err := s.loader.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			glog.V(1).Infof("avatar: image %s not found", path)
		} else {
			glog.Warningf("avatar: failed to load image %s: %v", path, err)
		}
		return nil, false
	}
	if img.Bounds().Empty() {
		glog.Warningf("avatar: image %s is empty", path)
		return nil, false
	}

	s.images[key] = img
	return img, true
}

// Preload loads every key and returns how many of them are resident
// afterwards. It only warms the store; missing keys are not an error.
func (s *ImageStore) Preload(keys ...ImageKey) int {
	n := 0
	for _, k := range keys {
		if _, ok := s.Get(k.Pose, k.Expression); ok {
			n++
		}
	}
	glog.V(1).Infof("avatar: preloaded %d/%d images", n, len(keys))
	return n
}

// Loaded reports whether key is resident without attempting a load.
func (s *ImageStore) Loaded(key ImageKey) bool {
	_, ok := s.images[key]
	return ok
}

// Len returns the number of resident surfaces.
func (s *ImageStore) Len() int {
	return len(s.images)
}
