package screenshot

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"onscreen-translator/src/geometry"
)

// FileExtractor serves crops of a still image, standing in for the screen
// in headless runs.
type FileExtractor struct {
	src image.Image
}

func NewFileExtractor(img image.Image) *FileExtractor {
	return &FileExtractor{src: img}
}

// LoadFile decodes a PNG or JPEG file.
func LoadFile(path string) (*FileExtractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return NewFileExtractor(img), nil
}

// Bounds is the full image rectangle, usable as the parent bound.
func (e *FileExtractor) Bounds() geometry.Rect {
	return fromImageRect(e.src.Bounds())
}

func (e *FileExtractor) IsGranted() bool { return e.src != nil }

func (e *FileExtractor) Extract(ctx context.Context, parent, crop geometry.Rect) (*Image, error) {
	if !e.IsGranted() {
		return nil, ErrNotGranted
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bounds := e.Bounds()
	target := geometry.Clip(geometry.Scale(crop, parent, bounds), bounds)
	if target.Empty() {
		return nil, fmt.Errorf("region %s is outside the image %s", crop, bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, target.Width(), target.Height()))
	draw.Copy(dst, image.Point{}, e.src, toImageRect(target), draw.Src, nil)
	return NewImage(dst), nil
}
