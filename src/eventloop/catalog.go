package eventloop

import (
	"context"
	"fmt"
	"log"

	"onscreen-translator/src/overlay"
	"onscreen-translator/src/translation"
)

// Catalog lists what the language picker offers, with the stored choices
// selected. It reads only the registries and the preference store, so it may
// be called from any goroutine.
func (l *Loop) Catalog(ctx context.Context) overlay.Catalog {
	var c overlay.Catalog

	selected := l.selectedRecognizer().Type()
	ocrLang := l.opts.Prefs.SelectedOCRLang()
	for _, t := range l.opts.Recognizers.Types() {
		code := ""
		if t == selected {
			code = ocrLang
		}
		langs, err := l.opts.Recognizers.Languages(ctx, t, code)
		if err != nil {
			log.Printf("eventloop: catalog: %v", err)
			continue
		}
		c.OCRLanguages = append(c.OCRLanguages, langs...)
	}

	c.Providers = l.opts.Translators.Providers(l.opts.Prefs.SelectedTranslationProvider())
	tr := l.translator()
	if tr == nil {
		return c
	}
	langs, err := tr.SupportedLanguages(ctx)
	if err != nil {
		log.Printf("eventloop: catalog: %s languages: %v", tr.Type(), err)
		return c
	}
	switch {
	case len(langs) == 0:
		c.Hint = tr.Hint()
	case !translation.IsLanguageSupported(ctx, tr, ocrLang):
		c.Hint = fmt.Sprintf("%s does not support the OCR language %q.", tr.Type().DisplayName(), ocrLang)
	default:
		c.TranslationLanguages = langs
	}
	return c
}

func (l *Loop) refreshCatalog() {
	if v, ok := l.opts.Surface.(overlay.CatalogViewer); ok {
		v.RefreshCatalog()
	}
}
