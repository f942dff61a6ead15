// Package session holds the circle-to-translate state machine: the states,
// the legal transitions between them and the display snapshot shown at the end.
package session

import (
	"errors"
	"fmt"
	"log"

	"onscreen-translator/src/geometry"
)

var ErrIllegalTransition = errors.New("illegal state transition")

type Kind int

const (
	KindIdle Kind = iota
	KindCircling
	KindCircled
	KindCapturing
	KindRecognizing
	KindTranslating
	KindDisplaying
	KindFailed
)

var kindNames = [...]string{
	KindIdle:        "Idle",
	KindCircling:    "Circling",
	KindCircled:     "Circled",
	KindCapturing:   "Capturing",
	KindRecognizing: "Recognizing",
	KindTranslating: "Translating",
	KindDisplaying:  "Displaying",
	KindFailed:      "Failed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every state kind.
func Kinds() []Kind {
	return []Kind{KindIdle, KindCircling, KindCircled, KindCapturing, KindRecognizing, KindTranslating, KindDisplaying, KindFailed}
}

// State is one of Idle, Circling, Circled, Capturing, Recognizing,
// Translating, Displaying or Failed.
type State interface {
	Kind() Kind
	isState()
}

type (
	Idle     struct{}
	Circling struct{}
	// Circled carries the finalized selection and the bound it was drawn in.
	Circled struct {
		Selection geometry.Rect
		Parent    geometry.Rect
	}
	Capturing   struct{}
	Recognizing struct{}
	Translating struct{}
	Displaying  struct{}
	Failed      struct {
		Message string
	}
)

func (Idle) Kind() Kind        { return KindIdle }
func (Circling) Kind() Kind    { return KindCircling }
func (Circled) Kind() Kind     { return KindCircled }
func (Capturing) Kind() Kind   { return KindCapturing }
func (Recognizing) Kind() Kind { return KindRecognizing }
func (Translating) Kind() Kind { return KindTranslating }
func (Displaying) Kind() Kind  { return KindDisplaying }
func (Failed) Kind() Kind      { return KindFailed }

func (Idle) isState()        {}
func (Circling) isState()    {}
func (Circled) isState()     {}
func (Capturing) isState()   {}
func (Recognizing) isState() {}
func (Translating) isState() {}
func (Displaying) isState()  {}
func (Failed) isState()      {}

// Zero returns the payload-free state of kind k.
func Zero(k Kind) State {
	switch k {
	case KindIdle:
		return Idle{}
	case KindCircling:
		return Circling{}
	case KindCircled:
		return Circled{}
	case KindCapturing:
		return Capturing{}
	case KindRecognizing:
		return Recognizing{}
	case KindTranslating:
		return Translating{}
	case KindDisplaying:
		return Displaying{}
	case KindFailed:
		return Failed{}
	default:
		panic(fmt.Sprintf("session: unknown kind %d", int(k)))
	}
}

var transitions = map[Kind][]Kind{
	KindIdle:        {KindCircling},
	KindCircling:    {KindIdle, KindCircled},
	KindCircled:     {KindIdle, KindCapturing},
	KindCapturing:   {KindIdle, KindRecognizing, KindFailed},
	KindRecognizing: {KindIdle, KindTranslating, KindFailed},
	KindTranslating: {KindDisplaying, KindFailed, KindIdle},
	KindDisplaying:  {KindIdle, KindTranslating},
	KindFailed:      {KindIdle},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Kind) bool {
	for _, k := range transitions[from] {
		if k == to {
			return true
		}
	}
	return false
}

// Machine holds the current state. It is not safe for concurrent use; the
// event loop is its only owner.
type Machine struct {
	state    State
	onChange func(from, to State)
}

// NewMachine starts in Idle. onChange, if set, runs after every accepted transition.
func NewMachine(onChange func(from, to State)) *Machine {
	return &Machine{state: Idle{}, onChange: onChange}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Kind() Kind { return m.state.Kind() }

// In reports whether the current state is one of kinds.
func (m *Machine) In(kinds ...Kind) bool {
	cur := m.state.Kind()
	for _, k := range kinds {
		if k == cur {
			return true
		}
	}
	return false
}

// Update replaces the payload of the current state without a transition,
// e.g. a new selection while Circled. next must have the current kind.
func (m *Machine) Update(next State) error {
	if next.Kind() != m.state.Kind() {
		err := fmt.Errorf("%w: update %s with %s", ErrIllegalTransition, m.state.Kind(), next.Kind())
		log.Printf("session: %v", err)
		return err
	}
	m.state = next
	return nil
}

// Transition moves to next when the table allows it. Otherwise the state is
// left unchanged and ErrIllegalTransition is returned and logged.
func (m *Machine) Transition(next State) error {
	from := m.state
	if !CanTransition(from.Kind(), next.Kind()) {
		err := fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from.Kind(), next.Kind())
		log.Printf("session: %v", err)
		return err
	}
	m.state = next
	log.Printf("session: %s -> %s", from.Kind(), next.Kind())
	if m.onChange != nil {
		m.onChange(from, next)
	}
	return nil
}
