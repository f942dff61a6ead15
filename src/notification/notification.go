// Package notification shows blocking messages outside the overlay, for
// failures that happen before any window exists.
package notification

import "unicode/utf8"

const maxMessageRunes = 1000

// clip shortens message to maxMessageRunes runes.
func clip(message string) string {
	if utf8.RuneCountInString(message) <= maxMessageRunes {
		return message
	}
	runes := []rune(message)
	return string(runes[:maxMessageRunes]) + "..."
}

// ShowBlockingError shows title and message and returns once the user has
// dismissed it.
func ShowBlockingError(title, message string) {
	showBlocking(title, clip(message))
}
