package translation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/samber/lo"

	"onscreen-translator/src/dialog"
	"onscreen-translator/src/langtag"
)

// ChatClient is the subset of llm.Client the LLM translator uses.
type ChatClient interface {
	Configured() error
	Complete(ctx context.Context, system, prompt string) (string, error)
	Ping(ctx context.Context) error
}

const verifyTimeout = 30 * time.Second

// llmLanguages are the targets offered for model based translation.
var llmLanguages = []Language{
	{Code: "ar", DisplayName: "Arabic"},
	{Code: "zh", DisplayName: "Chinese"},
	{Code: "cs", DisplayName: "Czech"},
	{Code: "da", DisplayName: "Danish"},
	{Code: "nl", DisplayName: "Dutch"},
	{Code: "en", DisplayName: "English"},
	{Code: "fi", DisplayName: "Finnish"},
	{Code: "fr", DisplayName: "French"},
	{Code: "de", DisplayName: "German"},
	{Code: "el", DisplayName: "Greek"},
	{Code: "he", DisplayName: "Hebrew"},
	{Code: "hi", DisplayName: "Hindi"},
	{Code: "hu", DisplayName: "Hungarian"},
	{Code: "id", DisplayName: "Indonesian"},
	{Code: "it", DisplayName: "Italian"},
	{Code: "ja", DisplayName: "Japanese"},
	{Code: "ko", DisplayName: "Korean"},
	{Code: "no", DisplayName: "Norwegian"},
	{Code: "pl", DisplayName: "Polish"},
	{Code: "pt", DisplayName: "Portuguese"},
	{Code: "ro", DisplayName: "Romanian"},
	{Code: "ru", DisplayName: "Russian"},
	{Code: "es", DisplayName: "Spanish"},
	{Code: "sv", DisplayName: "Swedish"},
	{Code: "th", DisplayName: "Thai"},
	{Code: "tr", DisplayName: "Turkish"},
	{Code: "uk", DisplayName: "Ukrainian"},
	{Code: "vi", DisplayName: "Vietnamese"},
}

// LLMTranslator translates in-app through a chat model. Before the first
// translation the configured model is checked against the service.
type LLMTranslator struct {
	client   ChatClient
	prefs    LangPrefs
	prompter dialog.Prompter
	langs    []Language

	mu        sync.Mutex
	verified  bool
	verifying bool
}

func NewLLM(client ChatClient, prefs LangPrefs, prompter dialog.Prompter) *LLMTranslator {
	if prompter == nil {
		prompter = dialog.Discard{}
	}
	return &LLMTranslator{client: client, prefs: prefs, prompter: prompter, langs: llmLanguages}
}

func (t *LLMTranslator) Type() ProviderType { return LLM }
func (t *LLMTranslator) Hint() string       { return "" }

func (t *LLMTranslator) SupportedLanguages(ctx context.Context) ([]Language, error) {
	codes := lo.Map(t.langs, func(l Language, _ int) string { return l.Code })
	selected := selectedLangCode(t.prefs, codes)
	return lo.Map(t.langs, func(l Language, _ int) Language {
		l.Selected = l.Code == selected
		return l
	}), nil
}

// Ready reports whether the model has been verified.
func (t *LLMTranslator) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verified
}

// Verify checks the model synchronously.
func (t *LLMTranslator) Verify(ctx context.Context) error {
	if err := t.client.Configured(); err != nil {
		return err
	}
	if err := t.client.Ping(ctx); err != nil {
		return fmt.Errorf("verify translation model: %w", err)
	}
	t.mu.Lock()
	t.verified = true
	t.mu.Unlock()
	return nil
}

func (t *LLMTranslator) CheckEnvironment(ctx context.Context) bool {
	if err := t.client.Configured(); err != nil {
		t.prompter.ShowDialog(dialog.Dialog{
			Title:   "Translation is not configured",
			Message: fmt.Sprintf("%v. Set OPENROUTER_API_KEY and MODEL in the .env file, or pick another translation provider.", err),
			Kind:    dialog.ConfirmOnly,
		})
		return false
	}

	t.mu.Lock()
	if t.verified {
		t.mu.Unlock()
		return true
	}
	if t.verifying {
		t.mu.Unlock()
		return false
	}
	t.verifying = true
	t.mu.Unlock()

	go t.verifyInBackground()
	return false
}

func (t *LLMTranslator) verifyInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	dismiss := t.prompter.ShowDialog(dialog.Dialog{
		Title:    "Checking translation model",
		Message:  "Please wait while the translation model is verified.",
		Kind:     dialog.CancelOnly,
		OnCancel: cancel,
	})

	log.Printf("LLM translator: verifying model")
	err := t.Verify(ctx)
	dismiss()

	t.mu.Lock()
	t.verifying = false
	t.mu.Unlock()

	if err != nil {
		log.Printf("LLM translator: verification failed: %v", err)
		if errors.Is(err, context.Canceled) {
			return
		}
		t.prompter.ShowDialog(dialog.Dialog{
			Title:   "Failed to check resources",
			Message: err.Error(),
			Kind:    dialog.ConfirmOnly,
		})
		return
	}
	log.Printf("LLM translator: model verified")
	t.prompter.ShowDialog(dialog.Dialog{
		Title:   "Translation ready",
		Message: "The translation model is available. Circle the text again to translate it.",
		Kind:    dialog.ConfirmOnly,
	})
}

func (t *LLMTranslator) Translate(ctx context.Context, text, sourceLangCode string) Result {
	if !IsLanguageSupported(ctx, t, sourceLangCode) {
		return SourceLangNotSupported{Provider: LLM}
	}

	langs, _ := t.SupportedLanguages(ctx)
	target, ok := lo.Find(langs, func(l Language) bool { return l.Selected })
	if !ok {
		return Failed{Err: errors.New("selected language code is not found")}
	}
	source, ok := lo.Find(langs, func(l Language) bool { return langtag.Match(l.Code, sourceLangCode) })
	if !ok {
		return Failed{Err: fmt.Errorf("parsing language tag failed, sourceLangCode: %s", sourceLangCode)}
	}

	if langtag.Match(source.Code, target.Code) {
		return Translated{Text: text, Provider: LLM}
	}

	system := fmt.Sprintf(
		"You are a translation engine. Translate the user's text from %s to %s. "+
			"Reply with the translation only, keeping line breaks.", source.DisplayName, target.DisplayName)
	out, err := t.client.Complete(ctx, system, text)
	if err != nil {
		return Failed{Err: err}
	}
	return Translated{Text: out, Provider: LLM}
}
