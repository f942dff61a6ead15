package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/kbinani/screenshot"

	"onscreen-translator/src/geometry"
)

// ErrNotGranted is returned when the process cannot capture the screen.
var ErrNotGranted = errors.New("screen capture permission not granted")

// Extractor captures the crop rectangle of a parent bound. Both rectangles
// are in the parent's coordinate space.
type Extractor interface {
	IsGranted() bool
	Extract(ctx context.Context, parent, crop geometry.Rect) (*Image, error)
}

// Image is a captured bitmap that must be released once consumed.
type Image struct {
	mu       sync.Mutex
	img      image.Image
	released bool
}

func NewImage(img image.Image) *Image { return &Image{img: img} }

// Bitmap returns the image, or nil after Release or on a nil Image.
func (i *Image) Bitmap() image.Image {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return nil
	}
	return i.img
}

// Release drops the pixel buffer. Safe to call more than once and on nil.
func (i *Image) Release() {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.released = true
	i.img = nil
}

func (i *Image) Released() bool {
	if i == nil {
		return true
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.released
}

// DisplayExtractor captures from the live screen. Bounds picks the physical
// area the parent maps onto; nil means the whole virtual screen.
type DisplayExtractor struct {
	Bounds func() (geometry.Rect, error)
}

func (DisplayExtractor) IsGranted() bool {
	return screenshot.NumActiveDisplays() > 0
}

// VirtualBounds returns the union of all active display bounds.
func VirtualBounds() (geometry.Rect, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return geometry.Rect{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return fromImageRect(union), nil
}

// PrimaryBounds returns the bounds of the first display.
func PrimaryBounds() (geometry.Rect, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return geometry.Rect{}, fmt.Errorf("no active displays found")
	}
	return fromImageRect(screenshot.GetDisplayBounds(0)), nil
}

// CaptureBounds grabs r of the live screen as a plain image.
func CaptureBounds(r geometry.Rect) (image.Image, error) {
	img, err := screenshot.CaptureRect(toImageRect(r))
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", r, err)
	}
	return img, nil
}

func (e DisplayExtractor) Extract(ctx context.Context, parent, crop geometry.Rect) (*Image, error) {
	if !e.IsGranted() {
		return nil, ErrNotGranted
	}
	if crop.Empty() {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", crop.Width(), crop.Height())
	}
	bounds := e.Bounds
	if bounds == nil {
		bounds = VirtualBounds
	}
	screen, err := bounds()
	if err != nil {
		return nil, err
	}

	// The parent may be a logical-pixel surface laid over the physical screen.
	target := geometry.Clip(geometry.Scale(crop, parent, screen), screen)
	if target.Empty() {
		return nil, fmt.Errorf("region %s is outside the screen %s", crop, screen)
	}

	type outcome struct {
		img *image.RGBA
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		img, err := screenshot.CaptureRect(toImageRect(target))
		done <- outcome{img, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("failed to capture region: %w", o.err)
		}
		return NewImage(o.img), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func toImageRect(r geometry.Rect) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func fromImageRect(r image.Rectangle) geometry.Rect {
	return geometry.Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}
