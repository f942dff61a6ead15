// Package recognition defines the OCR provider contract shared by every
// backend, the language catalog helpers, and a registry keyed by provider type.
package recognition

import (
	"context"
	"image"

	"onscreen-translator/src/geometry"
)

type ProviderType string

const (
	LLMVision ProviderType = "llm_vision"
	Tesseract ProviderType = "tesseract"
)

func (t ProviderType) DisplayName() string {
	switch t {
	case LLMVision:
		return "LLM Vision (online)"
	case Tesseract:
		return "Tesseract (offline)"
	default:
		return string(t)
	}
}

// Language is a provider specific OCR language entry.
type Language struct {
	Code        string
	DisplayName string
	Selected    bool
	Downloaded  bool
	Provider    ProviderType
	// InnerCode is the identifier the backend itself understands, e.g. "chi_sim".
	InnerCode string
}

// Result is the output of one recognition attempt. Boxes are in the
// coordinate space of the recognized image.
type Result struct {
	LangCode string
	Text     string
	Boxes    []geometry.Rect
}

type Recognizer interface {
	Type() ProviderType
	Name() string
	SupportedLanguages(ctx context.Context) ([]Language, error)
	Recognize(ctx context.Context, lang Language, img image.Image) (Result, error)
	DisplayLangCode(code string) string
}

// ModelDownloader is implemented by backends that need an on-disk model per
// language. CancelDownload is a no-op when nothing is in flight.
type ModelDownloader interface {
	HasModel(code string) bool
	DownloadModel(ctx context.Context, code string) error
	CancelDownload()
}

// DefaultJoiner separates text blocks when no joiner is configured.
const DefaultJoiner = " "

// JoinerFunc returns the current text block separator. It is read on every
// recognition so settings changes apply to the next session.
type JoinerFunc func() string

func (f JoinerFunc) Get() string {
	if f == nil {
		return DefaultJoiner
	}
	return f()
}

// CheckSize returns an image_too_small error when img is below min on either axis.
func CheckSize(img image.Image, min int) error {
	b := img.Bounds()
	if b.Dx() < min || b.Dy() < min {
		return &Error{
			Code:   CodeImageTooSmall,
			Reason: imageTooSmallReason(min),
		}
	}
	return nil
}

// ImageBox returns the bounds of img as a geometry.Rect.
func ImageBox(img image.Image) geometry.Rect {
	b := img.Bounds()
	return geometry.Rect{Left: b.Min.X, Top: b.Min.Y, Right: b.Max.X, Bottom: b.Max.Y}
}
