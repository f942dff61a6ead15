package clipboard

import (
	"os"
	"testing"
)

func TestWriteEmptyIsNoop(t *testing.T) {
	var s System
	if err := s.Write(""); err != nil {
		t.Fatalf("Write(\"\") = %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	if os.Getenv("ONSCREEN_TRANSLATOR_INTERACTIVE_TESTS") != "1" {
		t.Skip("set ONSCREEN_TRANSLATOR_INTERACTIVE_TESTS=1 to touch the system clipboard")
	}
	var s System
	if err := s.Write("Hola"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hola" {
		t.Fatalf("Read() = %q", got)
	}
}
