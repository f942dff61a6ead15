package translation

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"

	"onscreen-translator/src/dialog"
)

const googleTranslateURL = "https://translate.google.com/"

// ExternalTranslator hands the text to Google Translate in the browser.
type ExternalTranslator struct {
	prefs    LangPrefs
	prompter dialog.Prompter
	open     func(string) error
	lookPath func(string) (string, error)
}

func NewExternal(prefs LangPrefs, prompter dialog.Prompter) *ExternalTranslator {
	if prompter == nil {
		prompter = dialog.Discard{}
	}
	return &ExternalTranslator{
		prefs:    prefs,
		prompter: prompter,
		open:     browser.OpenURL,
		lookPath: exec.LookPath,
	}
}

func (t *ExternalTranslator) Type() ProviderType { return ExternalApp }

func (t *ExternalTranslator) Hint() string {
	return "Select the target language in Google Translate"
}

// No in-app languages; the browser page picks its own.
func (t *ExternalTranslator) SupportedLanguages(ctx context.Context) ([]Language, error) {
	return nil, nil
}

func (t *ExternalTranslator) CheckEnvironment(ctx context.Context) bool {
	if t.launcherAvailable() {
		return true
	}
	t.prompter.ShowDialog(dialog.Dialog{
		Title:   "No browser found",
		Message: "Google Translate needs a web browser. Install xdg-utils or pick another translation provider.",
		Kind:    dialog.ConfirmOnly,
	})
	return false
}

// launcherAvailable mirrors the commands pkg/browser tries on unix systems.
func (t *ExternalTranslator) launcherAvailable() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	for _, cmd := range []string{"xdg-open", "x-www-browser", "www-browser", "wslview"} {
		if _, err := t.lookPath(cmd); err == nil {
			return true
		}
	}
	return false
}

func (t *ExternalTranslator) Translate(ctx context.Context, text, sourceLangCode string) Result {
	if err := t.open(TranslateURL(text, t.prefs.SelectedTranslationLang())); err != nil {
		return Failed{Err: fmt.Errorf("launch Google Translate: %w", err)}
	}
	return OuterAppLaunched{}
}

// TranslateURL builds the Google Translate page URL for text.
func TranslateURL(text, target string) string {
	if target == "" {
		target = DefaultLang
	}
	q := url.Values{}
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("text", text)
	q.Set("op", "translate")
	return googleTranslateURL + "?" + q.Encode()
}
