package eventloop

import (
	"time"

	"onscreen-translator/src/config"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
)

// DefaultSettleDelay lets the selection overlay disappear before capture.
const DefaultSettleDelay = 100 * time.Millisecond

// SettingsSource hands out the current user options. config.Store implements it.
type SettingsSource interface {
	Settings() config.Settings
}

// Prefs is the part of the preference store the loop reads and writes.
type Prefs interface {
	SelectedOCRProvider() string
	SetSelectedOCRProvider(key string)
	SelectedOCRLang() string
	SetSelectedOCRLang(code string)
	SelectedTranslationProvider() string
	SetSelectedTranslationProvider(key string)
	SetSelectedTranslationLang(code string)
	LastSelection() (selection, parent geometry.Rect, ok bool)
	SetLastSelection(selection, parent geometry.Rect)
}

// Copier receives result text when auto-copy is enabled.
type Copier interface {
	Write(text string) error
}

type Options struct {
	Extractor   screenshot.Extractor
	Recognizers *recognition.Registry
	Translators *translation.Registry
	Surface     overlay.Surface
	Settings    SettingsSource
	Prefs       Prefs

	// Optional.
	Telemetry     telemetry.Sink
	Clipboard     Copier
	SettleDelay   time.Duration
	MinCropSize   int
	OnStateChange func(from, to session.State)
}
