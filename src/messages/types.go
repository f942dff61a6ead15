package messages

import (
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/translation"
)

// Message is the base interface for everything posted to the session loop.
type Message interface {
	Type() string
}

// MessageType constants for type identification
const (
	TypeStartCircling    = "StartCircling"
	TypeDragFinished     = "DragFinished"
	TypeResizeSelection  = "ResizeSelection"
	TypeCancelCircling   = "CancelCircling"
	TypeStartCapture     = "StartCapture"
	TypeRetranslate      = "Retranslate"
	TypeSelectTranslator = "SelectTranslator"
	TypeSelectOCRLang    = "SelectOCRLanguage"
	TypeSelectTransLang  = "SelectTranslationLang"
	TypeCloseAll         = "CloseAll"
	TypeCaptureDone      = "CaptureDone"
	TypeRecognitionDone  = "RecognitionDone"
	TypeTranslationDone  = "TranslationDone"
	TypeStateQuery       = "StateQuery"
)

// StartCircling - sent by the hotkey, tray or bar to begin area selection
type StartCircling struct{}

func (m StartCircling) Type() string { return TypeStartCircling }

// DragFinished - sent by the selection overlay when a drag is released
type DragFinished struct {
	Parent geometry.Rect
	Start  geometry.Point
	End    geometry.Point
}

func (m DragFinished) Type() string { return TypeDragFinished }

// ResizeSelection - sent when an edge or corner handle of the circled box is dragged
type ResizeSelection struct {
	Deltas geometry.EdgeDeltas
}

func (m ResizeSelection) Type() string { return TypeResizeSelection }

// CancelCircling - sent when the user dismisses the selection overlay
type CancelCircling struct{}

func (m CancelCircling) Type() string { return TypeCancelCircling }

// StartCapture - sent by the capture trigger. Empty OCRLang means the stored choice.
type StartCapture struct {
	OCRLang string
}

func (m StartCapture) Type() string { return TypeStartCapture }

// Retranslate - translate the retained recognition result again
type Retranslate struct{}

func (m Retranslate) Type() string { return TypeRetranslate }

// SelectTranslator - switch translation provider, re-translating a shown result
type SelectTranslator struct {
	Key string
}

func (m SelectTranslator) Type() string { return TypeSelectTranslator }

// SelectOCRLanguage - pick the recognizer and language for the next capture
type SelectOCRLanguage struct {
	Provider recognition.ProviderType
	Code     string
}

func (m SelectOCRLanguage) Type() string { return TypeSelectOCRLang }

// SelectTranslationLang - pick the target language, re-translating a shown result
type SelectTranslationLang struct {
	Code string
}

func (m SelectTranslationLang) Type() string { return TypeSelectTransLang }

// CloseAll - hide everything and return to Idle
type CloseAll struct{}

func (m CloseAll) Type() string { return TypeCloseAll }

// CaptureDone - posted by the capture task. Gen identifies the stage run.
type CaptureDone struct {
	Gen   uint64
	Image *screenshot.Image
	Err   error
}

func (m CaptureDone) Type() string { return TypeCaptureDone }

// RecognitionDone - posted by the recognition task
type RecognitionDone struct {
	Gen    uint64
	Result recognition.Result
	Err    error
}

func (m RecognitionDone) Type() string { return TypeRecognitionDone }

// TranslationDone - posted by the translation task
type TranslationDone struct {
	Gen      uint64
	Provider translation.ProviderType
	Result   translation.Result
}

func (m TranslationDone) Type() string { return TypeTranslationDone }

// StateQuery - asks the loop for its current state
type StateQuery struct {
	Reply chan session.State
}

func (m StateQuery) Type() string { return TypeStateQuery }
