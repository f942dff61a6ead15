package telemetry

import (
	"fmt"
	"testing"
)

func TestRecorderBounded(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.Record(Event{Name: fmt.Sprintf("e%d", i)})
	}
	if got := fmt.Sprint(r.Names()); got != "[e2 e3 e4]" {
		t.Fatalf("names = %s", got)
	}
	since := r.Since(4)
	if len(since) != 1 || since[0].Seq != 5 || since[0].Timestamp.IsZero() {
		t.Fatalf("since = %+v", since)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b || len(a) != 36 {
		t.Fatalf("ids %q %q", a, b)
	}
}
