package translation

import (
	"context"
	"errors"
	"net"

	"github.com/samber/lo"

	"onscreen-translator/src/langtag"
	"onscreen-translator/src/llm"
)

// IsLanguageSupported reports whether any language t supports shares a
// primary subtag with ocrLang.
func IsLanguageSupported(ctx context.Context, t Translator, ocrLang string) bool {
	langs, err := t.SupportedLanguages(ctx)
	if err != nil {
		return false
	}
	return lo.ContainsBy(langs, func(l Language) bool { return langtag.Match(l.Code, ocrLang) })
}

// IsConnectivity reports whether err means the backend could not be reached.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	var te *llm.TransportError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
