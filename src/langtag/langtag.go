// Package langtag compares BCP-47 style language tags by their primary subtag.
package langtag

import "strings"

// Primary returns the first "-"-delimited segment of tag, e.g. "en" for "en-US".
func Primary(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// Match reports whether a and b share a primary subtag.
func Match(a, b string) bool {
	return Primary(a) == Primary(b)
}
