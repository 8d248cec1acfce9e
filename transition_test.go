package avatar

import (
	"image"
	"image/color"
	"testing"
)

func newTestSynthesizer(t *testing.T, cfg TransitionConfig, keys ...ImageKey) *Synthesizer {
	t.Helper()
	return NewSynthesizer(NewImageStore(FSLoader{FS: fixtureFS(t, 20, 30, keys...)}), cfg)
}

func TestSynthesizerFrameCount(t *testing.T) {
	for _, n := range []int{2, 8, 13} {
		cfg := DefaultTransitionConfig()
		cfg.Frames = n
		s := newTestSynthesizer(t, cfg, ImageKey{1, 1}, ImageKey{3, 1})
		if got := len(s.Frames(1, 3)); got != n {
			t.Errorf("Frames = %d, want %d", got, n)
		}
	}

	cfg := DefaultTransitionConfig()
	cfg.Frames = 1
	s := newTestSynthesizer(t, cfg, ImageKey{1, 1}, ImageKey{3, 1})
	if got := len(s.Frames(1, 3)); got != 2 {
		t.Errorf("Frames with N=1 = %d, want 2", got)
	}
}

func TestSynthesizerMemoizes(t *testing.T) {
	loader := newCountingLoader(FSLoader{FS: fixtureFS(t, 20, 30, ImageKey{1, 1}, ImageKey{3, 1})})
	s := NewSynthesizer(NewImageStore(loader), DefaultTransitionConfig())

	first := s.Frames(1, 3)
	second := s.Frames(1, 3)
	if len(first) == 0 || &first[0] != &second[0] {
		t.Error("repeated Frames returned a different sequence")
	}
	if loader.total() != 2 {
		t.Errorf("loads = %d, want 2", loader.total())
	}

	reverse := s.Frames(3, 1)
	if len(reverse) == 0 || &reverse[0] == &first[0] {
		t.Error("reverse transition shares the forward sequence")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestSynthesizerSourceSwitch(t *testing.T) {
	cfg := DefaultTransitionConfig()
	s := newTestSynthesizer(t, cfg, ImageKey{1, 1}, ImageKey{3, 1})
	frames := s.Frames(1, 3)

	for i, f := range frames {
		want := ImageKey{1, 1}
		if f.Progress >= 0.5 {
			want = ImageKey{3, 1}
		}
		if f.Source != want {
			t.Errorf("frame %d (p=%.3f) source = %v, want %v", i, f.Progress, f.Source, want)
		}
		// The image center carries the source pose color.
		c := f.Dest.Min.Add(image.Pt(f.Dest.Dx()/2, f.Dest.Dy()/2))
		got := f.Image.RGBAAt(c.X, c.Y)
		wc := poseColor(want)
		if got != (color.RGBA{R: wc.R, G: wc.G, B: wc.B, A: 255}) {
			t.Errorf("frame %d center = %v, want %v", i, got, wc)
		}
	}
}

func TestSynthesizerEndpoints(t *testing.T) {
	var keys []ImageKey
	for _, pose := range []PoseID{1, 3} {
		for e := ExpressionID(1); e <= 4; e++ {
			keys = append(keys, ImageKey{pose, e})
		}
	}
	s := newTestSynthesizer(t, DefaultTransitionConfig(), keys...)
	frames := s.Frames(1, 3)
	if len(frames) != 8 {
		t.Fatalf("Frames = %d, want 8", len(frames))
	}

	first, last := frames[0], frames[len(frames)-1]
	if first.Source != (ImageKey{1, 1}) || last.Source != (ImageKey{3, 1}) {
		t.Errorf("sources = %v, %v, want 1-1, 3-1", first.Source, last.Source)
	}
	for _, f := range []TransitionFrame{first, last} {
		if f.Offset > offsetTolerance || f.Offset < -offsetTolerance {
			t.Errorf("%v offset = %v, want ~0", f.Source, f.Offset)
		}
		canvas := f.Image.Bounds()
		if f.Dest.Min.X != (canvas.Dx()-20)/2 || f.Dest.Min.Y != (canvas.Dy()-30)/2 {
			t.Errorf("%v dest = %v, want centered in %v", f.Source, f.Dest, canvas)
		}
	}
}

func TestSynthesizerOffsets(t *testing.T) {
	cfg := DefaultTransitionConfig()
	s := newTestSynthesizer(t, cfg, ImageKey{1, 1}, ImageKey{3, 1})
	frames := s.Frames(1, 3)
	n := len(frames)

	if frames[0].Progress != 0 || frames[n-1].Progress != 1 {
		t.Errorf("progress range = [%v, %v], want [0, 1]", frames[0].Progress, frames[n-1].Progress)
	}
	for i := range frames {
		j := n - 1 - i
		if d := frames[i].Offset - frames[j].Offset; d > offsetTolerance || d < -offsetTolerance {
			t.Errorf("offset[%d] = %v, offset[%d] = %v, want equal", i, frames[i].Offset, j, frames[j].Offset)
		}
	}
	// Frame 0 rests where the image is centered in the canvas.
	rest := frames[0].Dest.Min.Y
	for i, f := range frames {
		want := rest - int(f.Offset+0.5)
		if f.Dest.Min.Y != want {
			t.Errorf("frame %d y = %d, want %d", i, f.Dest.Min.Y, want)
		}
		if f.Dest.Min.Y < 0 || f.Dest.Max.Y > f.Image.Bounds().Dy() {
			t.Errorf("frame %d dest %v outside canvas %v", i, f.Dest, f.Image.Bounds())
		}
	}
}

func TestSynthesizerBackground(t *testing.T) {
	s := newTestSynthesizer(t, DefaultTransitionConfig(), ImageKey{1, 1}, ImageKey{3, 1})
	for i, f := range s.Frames(1, 3) {
		bottom := f.Image.Bounds().Dy() - 1
		if got := f.Image.RGBAAt(0, bottom); got != (color.RGBA{G: 255, A: 255}) {
			t.Errorf("frame %d bottom corner = %v, want chroma green", i, got)
		}
	}
}

func TestSynthesizerMixedSizes(t *testing.T) {
	fsys := fixtureFS(t, 20, 30, ImageKey{1, 1})
	addImage(t, fsys, ImageKey{3, 1}, 40, 10)
	s := NewSynthesizer(NewImageStore(FSLoader{FS: fsys}), DefaultTransitionConfig())

	frames := s.Frames(1, 3)
	want := image.Rect(0, 0, 40, 30+2*15)
	for i, f := range frames {
		if f.Image.Bounds() != want {
			t.Errorf("frame %d bounds = %v, want %v", i, f.Image.Bounds(), want)
		}
	}
}

func TestSynthesizerMissingNeutral(t *testing.T) {
	fsys := fixtureFS(t, 20, 30, ImageKey{1, 1})
	s := NewSynthesizer(NewImageStore(FSLoader{FS: fsys}), DefaultTransitionConfig())

	if f := s.Frames(1, 6); f != nil {
		t.Errorf("Frames with missing neutral = %d frames, want nil", len(f))
	}
	if s.Len() != 0 {
		t.Error("failed synthesis was memoized")
	}

	addImage(t, fsys, ImageKey{6, 1}, 20, 30)
	if got := len(s.Frames(1, 6)); got != 8 {
		t.Errorf("Frames after adding asset = %d, want 8", got)
	}
}

func TestSynthesizerRejectsSamePose(t *testing.T) {
	s := newTestSynthesizer(t, DefaultTransitionConfig(), ImageKey{1, 1})
	if f := s.Frames(1, 1); f != nil {
		t.Errorf("Frames(1, 1) = %d frames, want nil", len(f))
	}
}

func TestSynthesizerPrewarm(t *testing.T) {
	s := newTestSynthesizer(t, DefaultTransitionConfig(), ImageKey{1, 1}, ImageKey{3, 1}, ImageKey{4, 1})
	if n := s.Prewarm([]PoseID{1, 3, 4, 6}); n != 6 {
		t.Errorf("Prewarm = %d, want 6", n)
	}
}
