package session

import (
	"errors"
	"testing"

	"onscreen-translator/src/geometry"
)

// machineIn drives a fresh machine to kind along legal transitions.
func machineIn(t *testing.T, k Kind) *Machine {
	t.Helper()
	paths := map[Kind][]Kind{
		KindIdle:        nil,
		KindCircling:    {KindCircling},
		KindCircled:     {KindCircling, KindCircled},
		KindCapturing:   {KindCircling, KindCircled, KindCapturing},
		KindRecognizing: {KindCircling, KindCircled, KindCapturing, KindRecognizing},
		KindTranslating: {KindCircling, KindCircled, KindCapturing, KindRecognizing, KindTranslating},
		KindDisplaying:  {KindCircling, KindCircled, KindCapturing, KindRecognizing, KindTranslating, KindDisplaying},
		KindFailed:      {KindCircling, KindCircled, KindCapturing, KindFailed},
	}
	m := NewMachine(nil)
	for _, step := range paths[k] {
		if err := m.Transition(Zero(step)); err != nil {
			t.Fatalf("setup %s: %v", k, err)
		}
	}
	if m.Kind() != k {
		t.Fatalf("setup reached %s, want %s", m.Kind(), k)
	}
	return m
}

func TestTransitionTable(t *testing.T) {
	allowed := map[Kind][]Kind{
		KindIdle:        {KindCircling},
		KindCircling:    {KindIdle, KindCircled},
		KindCircled:     {KindIdle, KindCapturing},
		KindCapturing:   {KindIdle, KindRecognizing, KindFailed},
		KindRecognizing: {KindIdle, KindTranslating, KindFailed},
		KindTranslating: {KindDisplaying, KindFailed, KindIdle},
		KindDisplaying:  {KindIdle, KindTranslating},
		KindFailed:      {KindIdle},
	}
	for _, from := range Kinds() {
		want := map[Kind]bool{}
		for _, k := range allowed[from] {
			want[k] = true
		}
		for _, to := range Kinds() {
			if got := CanTransition(from, to); got != want[to] {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestIllegalTransitionLeavesStateUnchanged(t *testing.T) {
	for _, from := range Kinds() {
		for _, to := range Kinds() {
			if CanTransition(from, to) {
				continue
			}
			m := machineIn(t, from)
			before := m.State()
			err := m.Transition(Zero(to))
			if !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("%s -> %s: err = %v", from, to, err)
			}
			if m.State() != before {
				t.Fatalf("%s -> %s changed state to %s", from, to, m.Kind())
			}
		}
	}
}

func TestOnChange(t *testing.T) {
	var seen []Kind
	m := NewMachine(func(from, to State) { seen = append(seen, to.Kind()) })

	sel := geometry.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	_ = m.Transition(Circling{})
	_ = m.Transition(Displaying{}) // illegal, not reported
	_ = m.Transition(Circled{Selection: sel})

	if len(seen) != 2 || seen[0] != KindCircling || seen[1] != KindCircled {
		t.Fatalf("seen = %v", seen)
	}
	c, ok := m.State().(Circled)
	if !ok || c.Selection != sel {
		t.Fatalf("state = %#v", m.State())
	}
	if !m.In(KindIdle, KindCircled) || m.In(KindIdle) {
		t.Fatal("In mismatch")
	}
}

func TestDisplayText(t *testing.T) {
	d := Display{Kind: DisplayTranslated, OCRText: "Hola", TranslatedText: "Hello"}
	if d.Text() != "Hello" {
		t.Fatalf("Text() = %q", d.Text())
	}
	d.Kind = DisplayUnsupportedLang
	if d.Text() != "Hola" {
		t.Fatalf("Text() = %q", d.Text())
	}
}

func TestUpdateKeepsKind(t *testing.T) {
	m := machineIn(t, KindCircled)
	sel := geometry.Rect{Left: 1, Top: 2, Right: 40, Bottom: 50}
	if err := m.Update(Circled{Selection: sel}); err != nil {
		t.Fatal(err)
	}
	if m.State().(Circled).Selection != sel {
		t.Fatal("payload not replaced")
	}
	if err := m.Update(Idle{}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("err = %v", err)
	}
	if m.Kind() != KindCircled {
		t.Fatal("kind changed by rejected update")
	}
}
