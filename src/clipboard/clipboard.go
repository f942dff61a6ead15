// Package clipboard copies result text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// System writes to the OS clipboard. The zero value is ready to use; the
// clipboard backend is initialized on first write.
type System struct {
	once    sync.Once
	initErr error
	mu      sync.Mutex
}

func (s *System) init() error {
	s.once.Do(func() { s.initErr = clipboard.Init() })
	return s.initErr
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func (s *System) Write(text string) error {
	if text == "" {
		return nil
	}
	if err := s.init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Read returns the current clipboard text.
func (s *System) Read() (string, error) {
	if err := s.init(); err != nil {
		return "", fmt.Errorf("clipboard unavailable: %w", err)
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}
