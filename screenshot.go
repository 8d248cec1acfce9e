package avatar

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"golang.org/x/image/draw"
)

// screenshotQueue collects labeled capture requests for the output surface.
// Captures are taken at the end of the next render so they show a complete
// frame.
type screenshotQueue struct {
	dir    string
	labels []string
	clock  clock.Clock
}

func newScreenshotQueue(dir string, clk clock.Clock) *screenshotQueue {
	if dir == "" {
		dir = "screenshots"
	}
	return &screenshotQueue{dir: dir, clock: clk}
}

func (q *screenshotQueue) add(label string) {
	q.labels = append(q.labels, label)
}

func (q *screenshotQueue) pending() int {
	return len(q.labels)
}

// discard drops queued requests, used while the output surface is closed.
func (q *screenshotQueue) discard() {
	if len(q.labels) > 0 {
		glog.Warningf("avatar: dropped %d screenshots: output surface is closed", len(q.labels))
	}
	q.labels = q.labels[:0]
}

// flush captures s once and writes it for every queued label.
func (q *screenshotQueue) flush(s *RenderSurface) {
	if len(q.labels) == 0 {
		return
	}
	defer func() { q.labels = q.labels[:0] }()

	if err := os.MkdirAll(q.dir, 0o755); err != nil {
		glog.Warningf("avatar: screenshot: mkdir %s: %v", q.dir, err)
		return
	}

	w, h := s.Width(), s.Height()
	pixels := make([]byte, 4*w*h)
	s.Image().ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	stamp := q.clock.Now().Format("20060102_150405")
	for _, label := range q.labels {
		path := q.path(stamp, label)
		if err := SavePNG(path, img); err != nil {
			glog.Warningf("avatar: screenshot: %v", err)
			continue
		}
		glog.V(1).Infof("avatar: wrote screenshot %s", path)
	}
}

// unpremultiply converts premultiplied RGBA bytes read back from the GPU to
// a straight-alpha image for PNG encoding.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return dst
}

// SavePNG encodes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("avatar: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("avatar: encode %s: %w", path, err)
	}
	return f.Close()
}

// path returns the file for one capture: <dir>/<stamp>_<label>.png. Runes
// outside [A-Za-z0-9.-] in the label become underscores and a blank label
// is written as "unlabeled".
func (q *screenshotQueue) path(stamp, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "unlabeled"
	}
	label = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
	return filepath.Join(q.dir, stamp+"_"+label+".png")
}
