package recognition

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"
)

func TestNormalizeFiltersDedupesAndSorts(t *testing.T) {
	entries := []Entry{
		{Code: "fr", Name: "French"},
		{Code: "ang", Name: "Old English"},
		{Code: "en", Name: "English"},
		{Code: "enm", Name: "middle English"},
		{Code: "fr-CA", Name: "French"},
		{Code: "de", Name: "German"},
	}
	langs := Normalize(entries, Tesseract, func(e Entry) bool { return e.Code == "en" })

	var got []string
	for _, l := range langs {
		got = append(got, l.Code)
	}
	if fmt.Sprint(got) != "[en fr de]" {
		t.Fatalf("codes = %v", got)
	}
	if !langs[0].Downloaded || langs[1].Downloaded {
		t.Fatalf("downloaded flags wrong: %+v", langs)
	}
	if langs[0].InnerCode != "en" {
		t.Fatalf("inner code should default to code, got %q", langs[0].InnerCode)
	}
}

func TestMarkSelectedIsExclusive(t *testing.T) {
	langs := []Language{{Code: "en", Selected: true}, {Code: "fr"}, {Code: "de", Selected: true}}
	marked := MarkSelected(langs, "fr")
	n := 0
	for _, l := range marked {
		if l.Selected {
			n++
			if l.Code != "fr" {
				t.Fatalf("wrong entry selected: %s", l.Code)
			}
		}
	}
	if n != 1 {
		t.Fatalf("selected count = %d", n)
	}
	if !langs[0].Selected {
		t.Fatal("MarkSelected must not mutate its input")
	}
}

func TestClassifyScript(t *testing.T) {
	tests := []struct {
		code string
		want Script
	}{
		{"zh", Chinese},
		{"zh-Hant", Chinese},
		{"ja", Japanese},
		{"ko", Korean},
		{"hi", Devanagari},
		{"sa", Devanagari},
		{"en", Latin},
		{"", Latin},
	}
	for _, tt := range tests {
		if got := ClassifyScript(tt.code); got != tt.want {
			t.Errorf("ClassifyScript(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	err := CheckSize(image.NewRGBA(image.Rect(0, 0, 10, 40)), 32)
	if !IsImageTooSmall(err) {
		t.Fatalf("expected image too small, got %v", err)
	}
	if err := CheckSize(image.NewRGBA(image.Rect(0, 0, 32, 32)), 32); err != nil {
		t.Fatalf("32x32 should pass: %v", err)
	}

	wrapped := fmt.Errorf("stage: %w", NewModelMissingError("deu"))
	if !IsModelMissing(wrapped) || IsImageTooSmall(wrapped) {
		t.Fatalf("wrong classification for %v", wrapped)
	}

	cause := errors.New("engine crashed")
	be := NewBackendError("tesseract", cause)
	if !errors.Is(be, cause) {
		t.Fatal("backend error must unwrap to its cause")
	}
	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Fatal("plain error has no code")
	}
}

type stubRecognizer struct {
	typ   ProviderType
	langs []Language
}

func (s stubRecognizer) Type() ProviderType { return s.typ }
func (s stubRecognizer) Name() string       { return string(s.typ) }
func (s stubRecognizer) SupportedLanguages(context.Context) ([]Language, error) {
	return s.langs, nil
}
func (s stubRecognizer) Recognize(context.Context, Language, image.Image) (Result, error) {
	return Result{}, nil
}
func (s stubRecognizer) DisplayLangCode(code string) string { return code }

func TestRegistry(t *testing.T) {
	vision := stubRecognizer{typ: LLMVision, langs: []Language{{Code: "en"}, {Code: "ja"}}}
	tess := stubRecognizer{typ: Tesseract}

	if _, err := NewRegistry(Tesseract, vision); err == nil {
		t.Fatal("expected error for unregistered fallback")
	}

	reg, err := NewRegistry(LLMVision, vision, tess)
	if err != nil {
		t.Fatal(err)
	}
	if reg.FromKey("tesseract").Type() != Tesseract {
		t.Fatal("FromKey should resolve tesseract")
	}
	if reg.FromKey("bogus").Type() != LLMVision {
		t.Fatal("FromKey should fall back")
	}
	if types := reg.Types(); len(types) != 2 || types[0] != LLMVision {
		t.Fatalf("types = %v", types)
	}

	langs, err := reg.Languages(context.Background(), LLMVision, "ja")
	if err != nil {
		t.Fatal(err)
	}
	if langs[0].Selected || !langs[1].Selected {
		t.Fatalf("selection wrong: %+v", langs)
	}
	if _, err := reg.Languages(context.Background(), "nope", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
