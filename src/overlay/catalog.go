package overlay

import (
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/translation"
)

// Catalog is what the language picker lists: the OCR languages of every
// recognizer, the translation providers, and the target languages of the
// selected provider.
type Catalog struct {
	OCRLanguages         []recognition.Language
	Providers            []translation.Provider
	TranslationLanguages []translation.Language
	// Hint stands in for TranslationLanguages when they are empty.
	Hint string
}

// CatalogViewer is implemented by surfaces that show the language picker.
// RefreshCatalog may be called from any goroutine after a stored choice or a
// downloaded model changed the catalog.
type CatalogViewer interface {
	RefreshCatalog()
}
