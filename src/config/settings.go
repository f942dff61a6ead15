package config

import (
	"strings"
	"sync"
)

// Joiner is the separator placed between recognized text blocks.
type Joiner int

const (
	JoinerSpace Joiner = iota
	JoinerNewline
	JoinerNone
)

func (j Joiner) String() string {
	switch j {
	case JoinerNewline:
		return "newline"
	case JoinerNone:
		return "none"
	default:
		return "space"
	}
}

// Separator returns the text inserted between blocks.
func (j Joiner) Separator() string {
	switch j {
	case JoinerNewline:
		return "\n"
	case JoinerNone:
		return ""
	default:
		return " "
	}
}

func ParseJoiner(s string) Joiner {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newline", "\\n":
		return JoinerNewline
	case "none":
		return JoinerNone
	default:
		return JoinerSpace
	}
}

// Settings are the user options read by the session loop and the UI.
type Settings struct {
	RestoreLastPosition          bool
	FadeOutEnabled               bool
	FadeOutDelaySeconds          int
	FadeOutOpacity               float64
	CaptureTimeoutSeconds        int
	TextBlockJoiner              Joiner
	AutoCopyResult               bool
	HideRecognizedAfterTranslate bool
	RememberLastSelection        bool
}

func DefaultSettings() Settings {
	return Settings{
		RestoreLastPosition:          true,
		FadeOutEnabled:               true,
		FadeOutDelaySeconds:          5,
		FadeOutOpacity:               0.2,
		CaptureTimeoutSeconds:        DefaultCaptureTimeoutSec,
		TextBlockJoiner:              JoinerSpace,
		AutoCopyResult:               false,
		HideRecognizedAfterTranslate: false,
		RememberLastSelection:        true,
	}
}

func settingsFromEnv() Settings {
	d := DefaultSettings()
	s := Settings{
		RestoreLastPosition:          getEnvBool("RESTORE_LAST_POSITION", d.RestoreLastPosition),
		FadeOutEnabled:               getEnvBool("FADE_OUT", d.FadeOutEnabled),
		FadeOutDelaySeconds:          getEnvInt("FADE_OUT_DELAY_SEC", d.FadeOutDelaySeconds, 1),
		FadeOutOpacity:               float64(getEnvInt("FADE_OUT_OPACITY_PERCENT", int(d.FadeOutOpacity*100), 0)) / 100,
		CaptureTimeoutSeconds:        getEnvInt("CAPTURE_TIMEOUT_SEC", d.CaptureTimeoutSeconds, 1),
		TextBlockJoiner:              ParseJoiner(getEnvWithDefault("TEXT_BLOCK_JOINER", d.TextBlockJoiner.String())),
		AutoCopyResult:               getEnvBool("AUTO_COPY_RESULT", d.AutoCopyResult),
		HideRecognizedAfterTranslate: getEnvBool("HIDE_RECOGNIZED_AFTER_TRANSLATE", d.HideRecognizedAfterTranslate),
		RememberLastSelection:        getEnvBool("REMEMBER_LAST_SELECTION", d.RememberLastSelection),
	}
	if s.FadeOutOpacity > 1 {
		s.FadeOutOpacity = 1
	}
	return s
}

// Store hands out consistent snapshots of Settings.
type Store struct {
	mu sync.RWMutex
	s  Settings
}

func NewStore(s Settings) *Store { return &Store{s: s} }

func (st *Store) Settings() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update applies fn to the stored settings.
func (st *Store) Update(fn func(*Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
}

// Joiner returns the current block separator.
func (st *Store) Joiner() string {
	return st.Settings().TextBlockJoiner.Separator()
}
