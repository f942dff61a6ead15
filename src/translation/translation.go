// Package translation defines the translation provider contract, its closed
// result type and the providers shipped with the app.
package translation

import (
	"context"
	"fmt"
)

// DefaultLang is the target language used when the stored choice is unusable.
const DefaultLang = "en"

type ProviderType string

const (
	LLM         ProviderType = "llm"
	ExternalApp ProviderType = "external_app"
	OCROnly     ProviderType = "ocr_only"
)

// DefaultProvider is used for unknown or empty provider keys.
const DefaultProvider = LLM

type providerInfo struct {
	index          int
	displayName    string
	nonTranslation bool
}

var providerInfos = map[ProviderType]providerInfo{
	LLM:         {index: 1, displayName: "LLM translation"},
	ExternalApp: {index: 2, displayName: "Google Translate (browser)", nonTranslation: true},
	OCROnly:     {index: 3, displayName: "No translation (OCR only)", nonTranslation: true},
}

func (t ProviderType) Key() string { return string(t) }

func (t ProviderType) DisplayName() string {
	if info, ok := providerInfos[t]; ok {
		return info.displayName
	}
	return string(t)
}

// NonTranslation marks providers that do not translate inside the app.
func (t ProviderType) NonTranslation() bool { return providerInfos[t].nonTranslation }

// Provider is a selectable entry in the provider list.
type Provider struct {
	Key            string
	DisplayName    string
	NonTranslation bool
	Type           ProviderType
	Selected       bool
}

func ProviderFromType(t ProviderType, selected bool) Provider {
	return Provider{
		Key:            t.Key(),
		DisplayName:    t.DisplayName(),
		NonTranslation: t.NonTranslation(),
		Type:           t,
		Selected:       selected,
	}
}

type Language struct {
	Code        string
	DisplayName string
	Selected    bool
}

// Result is one of Translated, SourceLangNotSupported, OCROnlyResult,
// OuterAppLaunched or Failed.
type Result interface {
	isResult()
}

type Translated struct {
	Text     string
	Provider ProviderType
}

type SourceLangNotSupported struct {
	Provider ProviderType
}

type OCROnlyResult struct{}

type OuterAppLaunched struct{}

type Failed struct {
	Err error
}

func (Translated) isResult()             {}
func (SourceLangNotSupported) isResult() {}
func (OCROnlyResult) isResult()          {}
func (OuterAppLaunched) isResult()       {}
func (Failed) isResult()                 {}

func (f Failed) Error() string {
	if f.Err == nil {
		return "translation failed"
	}
	return f.Err.Error()
}

type Translator interface {
	Type() ProviderType
	// Hint is shown next to results of passthrough providers. Empty for none.
	Hint() string
	SupportedLanguages(ctx context.Context) ([]Language, error)
	// CheckEnvironment reports whether Translate can run now. It may start a
	// background acquisition flow and return false while it runs.
	CheckEnvironment(ctx context.Context) bool
	Translate(ctx context.Context, text, sourceLangCode string) Result
}

// LangPrefs is the part of the preference store translators read and repair.
type LangPrefs interface {
	SelectedTranslationLang() string
	SetSelectedTranslationLang(code string)
}

// selectedLangCode returns the stored target language when it is one of
// supported, and otherwise resets the preference to DefaultLang.
func selectedLangCode(prefs LangPrefs, supported []string) string {
	code := prefs.SelectedTranslationLang()
	for _, s := range supported {
		if s == code {
			return code
		}
	}
	if code != DefaultLang {
		prefs.SetSelectedTranslationLang(DefaultLang)
	}
	return DefaultLang
}

// Describe renders a result for logs.
func Describe(r Result) string {
	switch v := r.(type) {
	case Translated:
		return fmt.Sprintf("translated by %s", v.Provider)
	case SourceLangNotSupported:
		return fmt.Sprintf("source language not supported by %s", v.Provider)
	case OCROnlyResult:
		return "ocr only"
	case OuterAppLaunched:
		return "outer app launched"
	case Failed:
		return "failed: " + v.Error()
	default:
		return "unknown"
	}
}
