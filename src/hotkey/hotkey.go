// Package hotkey watches global key events through gohook and fires
// callbacks when a registered key combination is fully held down.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Combo is a parsed key combination such as "Ctrl+Alt+T".
type Combo struct {
	Text string
	keys []key
}

type key struct {
	name     string
	rawcodes []uint16
}

// Parse converts "Ctrl+Alt+q" into a Combo. Every part must map to a key.
func Parse(text string) (Combo, error) {
	names := parseHotkey(text)
	if len(names) == 0 {
		return Combo{}, fmt.Errorf("empty hotkey %q", text)
	}
	c := Combo{Text: text}
	for _, name := range names {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", text, name)
		}
		c.keys = append(c.keys, key{name: name, rawcodes: codes})
	}
	return c, nil
}

// parseHotkey lowercases and splits on "+", folding win/cmd/super together.
func parseHotkey(text string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(text), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		case "control":
			keys = append(keys, "ctrl")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

var namedKeys = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

// keyNameToRawcodes maps a key name to Windows virtual key codes, both sides
// for modifiers. Unknown names return nil.
func keyNameToRawcodes(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if codes, ok := namedKeys[name]; ok {
		return codes
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 24 && name == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)} // VK_F1 is 112
	}
	return nil
}

// matcher tracks which keys of one combo are held.
type matcher struct {
	combo   Combo
	pressed []bool
}

func newMatcher(c Combo) *matcher {
	return &matcher{combo: c, pressed: make([]bool, len(c.keys))}
}

// down records a key press and reports whether the whole combo is now held.
// A completed combo resets so holding the keys fires once.
func (m *matcher) down(rawcode uint16) bool {
	m.set(rawcode, true)
	for _, p := range m.pressed {
		if !p {
			return false
		}
	}
	for i := range m.pressed {
		m.pressed[i] = false
	}
	return true
}

func (m *matcher) up(rawcode uint16) { m.set(rawcode, false) }

func (m *matcher) set(rawcode uint16, v bool) {
	for i, k := range m.combo.keys {
		for _, rc := range k.rawcodes {
			if rc == rawcode {
				m.pressed[i] = v
			}
		}
	}
}

type binding struct {
	m  *matcher
	fn func()
}

// Listener dispatches global key events to registered combos.
type Listener struct {
	mu       sync.Mutex
	bindings []binding
}

func NewListener() *Listener { return &Listener{} }

// Register binds fn to text. fn runs on the listener goroutine and must not block.
func (l *Listener) Register(text string, fn func()) error {
	c, err := Parse(text)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindings = append(l.bindings, binding{m: newMatcher(c), fn: fn})
	log.Printf("hotkey: registered %s", text)
	return nil
}

// dispatch feeds one key event to every binding and returns the callbacks to run.
func (l *Listener) dispatch(kind uint8, rawcode uint16) []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var fire []func()
	for _, b := range l.bindings {
		switch kind {
		case gohook.KeyDown:
			if b.m.down(rawcode) {
				log.Printf("hotkey: %s detected", b.m.combo.Text)
				fire = append(fire, b.fn)
			}
		case gohook.KeyUp:
			b.m.up(rawcode)
		}
	}
	return fire
}

// Run consumes gohook events until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	evChan := gohook.Start()
	if evChan == nil {
		return fmt.Errorf("gohook.Start() returned nil channel")
	}
	defer gohook.End()
	log.Printf("hotkey: listening")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-evChan:
			if !ok {
				log.Printf("hotkey: event channel closed")
				return nil
			}
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			for _, fn := range l.dispatch(ev.Kind, ev.Rawcode) {
				safeCall(fn)
			}
		}
	}
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("hotkey: PANIC in callback: %v", r)
		}
	}()
	fn()
}
