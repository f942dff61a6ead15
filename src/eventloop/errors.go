package eventloop

import (
	"errors"

	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/translation"
)

var (
	ErrCaptureTimeout = errors.New("capture timeout")
	ErrBusy           = errors.New("busy, please retry")
	ErrImageReleased  = errors.New("captured image already released")
	ErrNoImage        = errors.New("extractor returned no image")
)

// User-facing failure messages.
const (
	MsgCaptureTimeout     = "capture timeout"
	MsgCaptureUnknown     = "Unknown error while capturing the screen"
	MsgCaptureNotGranted  = "Screen capture is not permitted"
	MsgImageTooSmall      = "The selected area is too small"
	MsgModelMissing       = "The recognition model for this language is not downloaded"
	MsgRecognitionUnknown = "An unknown error occurred while recognizing text"
	MsgConnectivity       = "Cannot connect to the translation server"
	MsgTranslationUnknown = "Unknown translation error"
)

func captureMessage(err error) string {
	switch {
	case errors.Is(err, ErrCaptureTimeout):
		return MsgCaptureTimeout
	case errors.Is(err, screenshot.ErrNotGranted):
		return MsgCaptureNotGranted
	case err != nil && err.Error() != "":
		return err.Error()
	default:
		return MsgCaptureUnknown
	}
}

func recognitionMessage(err error) string {
	switch {
	case recognition.IsImageTooSmall(err):
		return MsgImageTooSmall
	case recognition.IsModelMissing(err):
		return MsgModelMissing
	case err != nil && err.Error() != "":
		return err.Error()
	default:
		return MsgRecognitionUnknown
	}
}

func translationMessage(f translation.Failed) string {
	switch {
	case translation.IsConnectivity(f.Err):
		return MsgConnectivity
	case f.Err != nil && f.Err.Error() != "":
		return f.Err.Error()
	default:
		return MsgTranslationUnknown
	}
}
