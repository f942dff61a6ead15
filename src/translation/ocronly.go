package translation

import "context"

// OCROnlyTranslator shows recognized text without translating it.
type OCROnlyTranslator struct{}

func (OCROnlyTranslator) Type() ProviderType { return OCROnly }
func (OCROnlyTranslator) Hint() string {
	return "OCR only mode. Pick a translation provider to translate the text"
}
func (OCROnlyTranslator) SupportedLanguages(ctx context.Context) ([]Language, error) {
	return nil, nil
}
func (OCROnlyTranslator) CheckEnvironment(ctx context.Context) bool { return true }
func (OCROnlyTranslator) Translate(ctx context.Context, text, sourceLangCode string) Result {
	return OCROnlyResult{}
}
