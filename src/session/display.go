package session

import "onscreen-translator/src/geometry"

type DisplayKind int

const (
	// DisplayTranslated shows OCR text and its translation.
	DisplayTranslated DisplayKind = iota
	// DisplayOCROnly shows OCR text without a translation block.
	DisplayOCROnly
	// DisplayUnsupportedLang shows OCR text flagged as not translatable.
	DisplayUnsupportedLang
)

func (k DisplayKind) String() string {
	switch k {
	case DisplayTranslated:
		return "translated"
	case DisplayOCROnly:
		return "ocr-only"
	case DisplayUnsupportedLang:
		return "unsupported-language"
	default:
		return "unknown"
	}
}

// Display is the immutable snapshot handed to the surface when entering
// Displaying. Boxes are in screen coordinates.
type Display struct {
	Kind           DisplayKind
	OCRText        string
	LangCode       string
	Selection      geometry.Rect
	Boxes          []geometry.Rect
	TranslatedText string
	Provider       string
	Hint           string
	HideOCRText    bool
}

// Text is the text a copy action should use.
func (d Display) Text() string {
	if d.Kind == DisplayTranslated && d.TranslatedText != "" {
		return d.TranslatedText
	}
	return d.OCRText
}
