package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// poseColor gives every fixture image a distinct opaque color.
func poseColor(k ImageKey) color.NRGBA {
	return color.NRGBA{R: uint8(40 * k.Pose), G: 0, B: uint8(50 * k.Expression), A: 255}
}

func encodePNG(t testing.TB, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fixtureFS returns a model directory holding a w×h image for every key.
func fixtureFS(t testing.TB, w, h int, keys ...ImageKey) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, k := range keys {
		addImage(t, fsys, k, w, h)
	}
	return fsys
}

func addImage(t testing.TB, fsys fstest.MapFS, k ImageKey, w, h int) {
	t.Helper()
	fsys[(&ImageStore{}).Path(k)] = &fstest.MapFile{Data: encodePNG(t, w, h, poseColor(k))}
}

// allKeys lists every (pose, expression) of the default configuration.
func allKeys() []ImageKey {
	return DefaultConfig().ImageKeys()
}

// countingLoader counts Load calls per path.
type countingLoader struct {
	inner ImageLoader
	calls map[string]int
}

func newCountingLoader(inner ImageLoader) *countingLoader {
	return &countingLoader{inner: inner, calls: make(map[string]int)}
}

func (l *countingLoader) Load(path string) (image.Image, error) {
	l.calls[path]++
	return l.inner.Load(path)
}

func (l *countingLoader) total() int {
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}

// fakeTexture records how often it was released.
type fakeTexture struct {
	released int
}

func (f *fakeTexture) Deallocate() { f.released++ }
