package scratchcard

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	fsys := fstest.MapFS{
		"cat.png":  {Data: encodeTestPNG(t, 7, 5)},
		"junk.png": {Data: []byte("not an image")},
	}
	img, err := LoadImage(fsys, "cat.png")
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("bounds = %v, want 7x5", b)
	}
	if _, err := LoadImage(fsys, "missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadImage(missing) = %v, want fs.ErrNotExist", err)
	}
	if _, err := LoadImage(fsys, "junk.png"); err == nil {
		t.Error("LoadImage(junk) succeeded")
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder("images/fox.png", 64, 48)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("bounds = %v, want 64x48", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Errorf("corner alpha = %#x, want opaque", a)
	}
	// Different names get different colors.
	other := Placeholder("images/owl.png", 64, 48)
	if img.At(0, 0) == other.At(0, 0) {
		t.Error("placeholders for different names share a color")
	}
	if b := Placeholder("x", 0, 10).Bounds(); !b.Empty() {
		t.Errorf("zero-size placeholder bounds = %v", b)
	}
}

// waitForAssets polls l until n results have arrived or a second passes.
func waitForAssets(t *testing.T, l *assetLoader, n int) []assetResult {
	t.Helper()
	var got []assetResult
	deadline := time.Now().Add(time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		l.poll(func(r assetResult) { got = append(got, r) })
		time.Sleep(time.Millisecond)
	}
	if len(got) < n {
		t.Fatalf("got %d results, want %d", len(got), n)
	}
	return got
}

func TestAssetLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: encodeTestPNG(t, 4, 4)},
		"b.png": {Data: encodeTestPNG(t, 8, 2)},
	}
	l := newAssetLoader(fsys)
	ctx := context.Background()
	l.request(ctx, "a.png")
	l.request(ctx, "a.png") // already in flight
	l.request(ctx, "b.png")
	l.request(ctx, "missing.png")

	results := waitForAssets(t, l, 3)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			if r.file != "missing.png" {
				t.Errorf("unexpected failure for %s: %v", r.file, r.err)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if img, ok := l.image("b.png"); !ok || img.Bounds().Dx() != 8 {
		t.Error("b.png not available after decoding")
	}
	if _, ok := l.image("missing.png"); ok {
		t.Error("missing.png reported as loaded")
	}
	if len(l.pending) != 0 {
		t.Errorf("pending = %v, want empty", l.pending)
	}

	// Loaded files are not decoded again.
	l.request(ctx, "a.png")
	if l.pending["a.png"] {
		t.Error("loaded file requested again")
	}

	l.substitute("missing.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if _, ok := l.image("missing.png"); !ok {
		t.Error("substitute not recorded")
	}
}

func TestAssetLoaderCanceled(t *testing.T) {
	l := newAssetLoader(fstest.MapFS{"a.png": {Data: encodeTestPNG(t, 1, 1)}})
	// Hold every slot so the request has to wait for the semaphore.
	if err := l.sem.Acquire(context.Background(), maxDecoders); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.request(ctx, "a.png")
	cancel()

	deadline := time.Now().Add(time.Second)
	for l.pending["a.png"] && time.Now().Before(deadline) {
		l.poll(func(r assetResult) { t.Errorf("canceled decode delivered: %+v", r) })
		time.Sleep(time.Millisecond)
	}
	if l.pending["a.png"] {
		t.Fatal("canceled request never settled")
	}
	if _, ok := l.image("a.png"); ok {
		t.Error("canceled request produced an image")
	}
}

func TestAssetLoaderNilFS(t *testing.T) {
	l := newAssetLoader(nil)
	l.request(context.Background(), "a.png")
	if len(l.pending) != 0 {
		t.Error("request with no file system started work")
	}
}

func TestAppSubstitutesPlaceholder(t *testing.T) {
	s := newTestSession(false)
	g := BuildGallery(context.Background(), s, []string{"gone.png"}, GalleryOptions{Mode: ModeModal, CardWidth: 10, CardHeight: 10})
	cfg := DefaultConfig()
	cfg.Modal = ModalConfig{Width: 32, Height: 24}
	a := NewApp(context.Background(), cfg, g, fstest.MapFS{}, nil)
	a.openModal(0)

	deadline := time.Now().Add(time.Second)
	for !a.modalImg.ready && time.Now().Before(deadline) {
		a.update(testDT, false)
		time.Sleep(time.Millisecond)
	}
	if !a.modalImg.ready {
		t.Fatal("modal image never became ready")
	}
	img, ok := a.assets.image("gone.png")
	if !ok {
		t.Fatal("no placeholder recorded")
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("placeholder bounds = %v, want 32x24", b)
	}
}

func TestAppDropsStaleModalImage(t *testing.T) {
	s := newTestSession(false)
	g := BuildGallery(context.Background(), s, []string{"a.png", "b.png"}, GalleryOptions{Mode: ModeModal, CardWidth: 10, CardHeight: 10})
	a := NewApp(context.Background(), nil, g, nil, nil)

	a.openModal(0)
	stale := a.modalImg
	a.closeModal()
	a.openModal(1)

	// A result for the first opening arrives late.
	a.modalImg.file = stale.file
	a.modalImg.gen = stale.gen
	a.deliverModalImage(stale.file)
	if a.modalImg.ready {
		t.Error("stale image delivered to the current opening")
	}
}
