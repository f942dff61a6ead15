package recognition

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeImageTooSmall       ErrorCode = "image_too_small"
	CodeModelMissing        ErrorCode = "model_missing"
	CodeBackend             ErrorCode = "backend"
	CodeUnsupportedLanguage ErrorCode = "unsupported_language"
)

// Error is the structured failure returned by recognizers.
type Error struct {
	Code   ErrorCode
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func imageTooSmallReason(min int) string {
	return fmt.Sprintf("InputImage width and height should be at least %d", min)
}

func NewBackendError(backend string, cause error) *Error {
	return &Error{Code: CodeBackend, Reason: fmt.Sprintf("%s recognition failed", backend), Cause: cause}
}

func NewModelMissingError(code string) *Error {
	return &Error{Code: CodeModelMissing, Reason: fmt.Sprintf("model for %q is not downloaded", code)}
}

func NewUnsupportedLanguageError(code string) *Error {
	return &Error{Code: CodeUnsupportedLanguage, Reason: fmt.Sprintf("language %q is not supported", code)}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

func IsImageTooSmall(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeImageTooSmall
}

func IsModelMissing(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeModelMissing
}
