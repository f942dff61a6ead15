// Package prefs persists small user choices as a JSON key/value file.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"onscreen-translator/src/geometry"
)

const (
	keyOCRProvider         = "selected_ocr_provider"
	keyOCRLang             = "selected_ocr_lang"
	keyTranslationProvider = "selected_translation_provider"
	keyTranslationLang     = "selected_translation_lang"
	keyLastSelection       = "last_selection"
	keyLastBarPosition     = "last_bar_position"
	keyShownPrefix         = "shown."
)

// Defaults fill in selections that were never stored.
type Defaults struct {
	OCRProvider         string
	OCRLang             string
	TranslationProvider string
	TranslationLang     string
}

// Store is a JSON-file backed preference store. Every Set writes the file.
type Store struct {
	path     string
	defaults Defaults

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// Open loads path, starting empty when the file does not exist yet.
func Open(path string, d Defaults) (*Store, error) {
	s := &Store{path: path, defaults: d, values: map[string]json.RawMessage{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return s, nil
}

// Get decodes key into v. It reports false when key is unset or undecodable.
func (s *Store) Get(key string, v any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("prefs: ignoring bad value for %s: %v", key, err)
		return false
	}
	return true
}

// Set stores v under key and saves the file.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.save()
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) set(key string, v any) {
	if err := s.Set(key, v); err != nil {
		log.Printf("prefs: failed to save %s: %v", key, err)
	}
}

func (s *Store) getString(key, def string) string {
	var v string
	if s.Get(key, &v) && v != "" {
		return v
	}
	return def
}

func (s *Store) SelectedOCRProvider() string {
	return s.getString(keyOCRProvider, s.defaults.OCRProvider)
}

func (s *Store) SetSelectedOCRProvider(key string) { s.set(keyOCRProvider, key) }

func (s *Store) SelectedOCRLang() string {
	return s.getString(keyOCRLang, s.defaults.OCRLang)
}

func (s *Store) SetSelectedOCRLang(code string) { s.set(keyOCRLang, code) }

func (s *Store) SelectedTranslationProvider() string {
	return s.getString(keyTranslationProvider, s.defaults.TranslationProvider)
}

func (s *Store) SetSelectedTranslationProvider(key string) { s.set(keyTranslationProvider, key) }

func (s *Store) SelectedTranslationLang() string {
	return s.getString(keyTranslationLang, s.defaults.TranslationLang)
}

func (s *Store) SetSelectedTranslationLang(code string) { s.set(keyTranslationLang, code) }

type storedSelection struct {
	Selection geometry.Rect `json:"selection"`
	Parent    geometry.Rect `json:"parent"`
}

// LastSelection returns the last circled area and the bound it was drawn in.
func (s *Store) LastSelection() (selection, parent geometry.Rect, ok bool) {
	var v storedSelection
	if !s.Get(keyLastSelection, &v) || v.Selection.Empty() {
		return geometry.Rect{}, geometry.Rect{}, false
	}
	return v.Selection, v.Parent, true
}

func (s *Store) SetLastSelection(selection, parent geometry.Rect) {
	s.set(keyLastSelection, storedSelection{Selection: selection, Parent: parent})
}

func (s *Store) LastBarPosition() (geometry.Point, bool) {
	var p geometry.Point
	ok := s.Get(keyLastBarPosition, &p)
	return p, ok
}

func (s *Store) SetLastBarPosition(p geometry.Point) { s.set(keyLastBarPosition, p) }

// Shown reports whether a one-time notice (readme, version notes) was shown.
func (s *Store) Shown(feature string) bool {
	var v bool
	return s.Get(keyShownPrefix+feature, &v) && v
}

func (s *Store) MarkShown(feature string) { s.set(keyShownPrefix+feature, true) }
