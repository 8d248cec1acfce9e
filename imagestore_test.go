package avatar

import (
	"testing"
	"testing/fstest"
)

func TestImageStorePath(t *testing.T) {
	s := NewImageStore(FSLoader{FS: fstest.MapFS{}})
	if got := s.Path(ImageKey{Pose: 3, Expression: 2}); got != "3-2.png" {
		t.Errorf("Path = %q, want %q", got, "3-2.png")
	}
}

func TestImageStoreGetMemoizes(t *testing.T) {
	key := ImageKey{Pose: 1, Expression: 1}
	loader := newCountingLoader(FSLoader{FS: fixtureFS(t, 4, 6, key)})
	s := NewImageStore(loader)

	first, ok := s.Get(1, 1)
	if !ok {
		t.Fatal("Get(1, 1) failed")
	}
	second, ok := s.Get(1, 1)
	if !ok {
		t.Fatal("second Get(1, 1) failed")
	}
	if first != second {
		t.Error("repeated Get returned a different surface")
	}
	if loader.total() != 1 {
		t.Errorf("loads = %d, want 1", loader.total())
	}
	if b := first.Bounds(); b.Dx() != 4 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 4x6", b)
	}
	if !s.Loaded(key) || s.Len() != 1 {
		t.Errorf("Loaded = %v, Len = %d, want true, 1", s.Loaded(key), s.Len())
	}
}

func TestImageStoreMissingIsRetried(t *testing.T) {
	key := ImageKey{Pose: 3, Expression: 1}
	fsys := fstest.MapFS{}
	loader := newCountingLoader(FSLoader{FS: fsys})
	s := NewImageStore(loader)

	if _, ok := s.Get(3, 1); ok {
		t.Fatal("Get of missing asset succeeded")
	}
	if s.Loaded(key) {
		t.Error("failed load was cached")
	}

	addImage(t, fsys, key, 2, 2)
	if _, ok := s.Get(3, 1); !ok {
		t.Fatal("Get after adding asset failed")
	}
	if loader.calls["3-1.png"] != 2 {
		t.Errorf("loads = %d, want 2", loader.calls["3-1.png"])
	}
}

func TestImageStoreUndecodable(t *testing.T) {
	fsys := fstest.MapFS{"1-2.png": &fstest.MapFile{Data: []byte("not a png")}}
	s := NewImageStore(FSLoader{FS: fsys})
	if _, ok := s.Get(1, 2); ok {
		t.Error("Get of corrupt asset succeeded")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestImageStorePreload(t *testing.T) {
	s := NewImageStore(FSLoader{FS: fixtureFS(t, 2, 2,
		ImageKey{1, 1}, ImageKey{1, 2}, ImageKey{1, 4})})

	n := s.Preload(ImageKey{1, 1}, ImageKey{1, 2}, ImageKey{1, 3}, ImageKey{1, 4})
	if n != 3 {
		t.Errorf("Preload = %d, want 3", n)
	}
	if s.Loaded(ImageKey{1, 3}) {
		t.Error("missing key reported as loaded")
	}
}
