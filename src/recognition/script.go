package recognition

import "strings"

// Script groups languages that share one recognition engine configuration.
type Script int

const (
	Latin Script = iota
	Chinese
	Japanese
	Korean
	Devanagari
)

func (s Script) String() string {
	switch s {
	case Chinese:
		return "chinese"
	case Japanese:
		return "japanese"
	case Korean:
		return "korean"
	case Devanagari:
		return "devanagari"
	default:
		return "latin"
	}
}

var devanagariCodes = map[string]bool{"hi": true, "mr": true, "ne": true, "sa": true}

func ClassifyScript(code string) Script {
	switch {
	case code == "ja":
		return Japanese
	case code == "ko":
		return Korean
	case strings.HasPrefix(code, "zh"):
		return Chinese
	case devanagariCodes[code]:
		return Devanagari
	default:
		return Latin
	}
}
