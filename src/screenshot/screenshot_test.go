package screenshot

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"onscreen-translator/src/geometry"
)

func TestDisplayExtractor(t *testing.T) {
	// Needs a display; only checks that nothing panics in headless runs.
	e := DisplayExtractor{}
	if !e.IsGranted() {
		_, err := e.Extract(context.Background(), geometry.Rect{Right: 100, Bottom: 100}, geometry.Rect{Right: 10, Bottom: 10})
		if err != ErrNotGranted {
			t.Fatalf("err = %v, want ErrNotGranted", err)
		}
		return
	}
	if _, err := e.Extract(context.Background(), geometry.Rect{Right: 100, Bottom: 100}, geometry.Rect{}); err == nil {
		t.Error("Expected error for invalid region dimensions")
	}
}

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func TestFileExtractorCrops(t *testing.T) {
	e := NewFileExtractor(checkerboard(200, 100))
	crop := geometry.Rect{Left: 10, Top: 20, Right: 60, Bottom: 50}

	img, err := e.Extract(context.Background(), e.Bounds(), crop)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b := img.Bitmap().Bounds()
	if b.Dx() != 50 || b.Dy() != 30 {
		t.Fatalf("size = %dx%d", b.Dx(), b.Dy())
	}
	r, g, _, _ := img.Bitmap().At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 {
		t.Fatalf("origin pixel = (%d,%d), want (10,20)", r>>8, g>>8)
	}
}

func TestFileExtractorScalesFromParent(t *testing.T) {
	e := NewFileExtractor(checkerboard(200, 200))
	parent := geometry.Rect{Right: 100, Bottom: 100}
	img, err := e.Extract(context.Background(), parent, geometry.Rect{Left: 50, Top: 50, Right: 100, Bottom: 100})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bitmap().Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("size = %v", b)
	}
}

func TestFileExtractorCancelled(t *testing.T) {
	e := NewFileExtractor(checkerboard(10, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Extract(ctx, e.Bounds(), e.Bounds()); err != context.Canceled {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, checkerboard(40, 30)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	e, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := e.Bounds(); got.Width() != 40 || got.Height() != 30 {
		t.Fatalf("bounds = %s", got)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImageRelease(t *testing.T) {
	img := NewImage(checkerboard(2, 2))
	img.Release()
	img.Release()
	if !img.Released() || img.Bitmap() != nil {
		t.Fatal("released image must not expose pixels")
	}
	var nilImg *Image
	nilImg.Release()
	if nilImg.Bitmap() != nil || !nilImg.Released() {
		t.Fatal("nil image must read as released")
	}
}
