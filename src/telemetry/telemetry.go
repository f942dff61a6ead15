// Package telemetry records session lifecycle milestones. Recording never
// blocks or fails the caller.
package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	AreaSelectionStart     = "area_selection_start"
	CaptureStart           = "capture_start"
	CaptureEnd             = "capture_end"
	CaptureFail            = "capture_fail"
	OCRStart               = "ocr_start"
	OCREnd                 = "ocr_end"
	OCRFail                = "ocr_fail"
	TranslationStart       = "translation_start"
	TranslationEnd         = "translation_end"
	TranslationFail        = "translation_fail"
	SourceLangNotSupported = "translation_source_lang_not_supported"
)

type Event struct {
	Seq       int64
	Timestamp time.Time
	SessionID string
	Name      string
	Provider  string
	Detail    string
}

type Sink interface {
	Record(e Event)
}

// NewSessionID returns a fresh identifier for one circle-to-translate cycle.
func NewSessionID() string { return uuid.NewString() }

// Recorder keeps the most recent events in memory and mirrors them to the log.
type Recorder struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

func NewRecorder(maxEvents int) *Recorder {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &Recorder{maxEvents: maxEvents, events: make([]Event, 0, maxEvents)}
}

func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.nextSeq++
	e.Seq = r.nextSeq
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.events = append(r.events, e)
	if len(r.events) > r.maxEvents {
		trim := len(r.events) - r.maxEvents
		r.events = append([]Event(nil), r.events[trim:]...)
	}
	r.mu.Unlock()

	if e.Detail != "" {
		log.Printf("telemetry: [%s] %s provider=%s detail=%s", shortID(e.SessionID), e.Name, e.Provider, e.Detail)
	} else {
		log.Printf("telemetry: [%s] %s provider=%s", shortID(e.SessionID), e.Name, e.Provider)
	}
}

// Since returns events with sequence strictly greater than seq.
func (r *Recorder) Since(seq int64) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Names returns the names of all retained events in order.
func (r *Recorder) Names() []string {
	events := r.Since(0)
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Discard drops every event.
type Discard struct{}

func (Discard) Record(Event) {}
