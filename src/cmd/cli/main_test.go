package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"onscreen-translator/src/config"
	"onscreen-translator/src/eventloop"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"translate-tool", "-file", "a.png", "-json", "-api-key-path", "/tmp/key"},
			out:  []string{"translate-tool", "--file", "a.png", "--json", "--api-key-path", "/tmp/key"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"translate-tool", "-file=a.png", "-to=de", "-timeout=5s"},
			out:  []string{"translate-tool", "--file=a.png", "--to=de", "--timeout=5s"},
		},
		{
			name: "Leaves short and unknown flags unchanged",
			in:   []string{"translate-tool", "-v", "--file", "a.png", "-x"},
			out:  []string{"translate-tool", "-v", "--file", "a.png", "-x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLegacyArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	err := cmd.ParseFlags([]string{"--file", "a.png", "--ocr", "tesseract", "--lang", "ja", "--provider", "ocr_only", "--to", "de", "--json", "--timeout", "30s"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.filePath != "a.png" || opts.ocr != "tesseract" || opts.ocrLang != "ja" {
		t.Fatalf("unexpected OCR options: %+v", opts)
	}
	if opts.provider != "ocr_only" || opts.target != "de" || !opts.jsonOutput {
		t.Fatalf("unexpected translation options: %+v", opts)
	}
	if opts.timeout != 30*time.Second {
		t.Fatalf("timeout = %v", opts.timeout)
	}
}

func TestRunWithArgsRequiresFile(t *testing.T) {
	if err := runWithArgs([]string{"translate-tool"}); err == nil {
		t.Fatal("expected an error without --file")
	}
}

func TestLoadImageRejectsEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadImage(empty); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadImageDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 120, 60))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ext, err := loadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := ext.Bounds(); got != (geometry.Rect{Right: 120, Bottom: 60}) {
		t.Fatalf("bounds = %+v", got)
	}
}

func TestNewCLIPrefsPrefersFlags(t *testing.T) {
	cfg := &config.Config{
		DefaultOCRProvider:         "llm_vision",
		DefaultOCRLang:             "en",
		DefaultTranslationProvider: "llm",
		DefaultTranslationLang:     "en",
	}
	p := newCLIPrefs(cfg, cliOptions{ocrLang: "ja", provider: " ocr_only "})
	if p.SelectedOCRProvider() != "llm_vision" || p.SelectedOCRLang() != "ja" {
		t.Fatalf("ocr prefs = %q %q", p.SelectedOCRProvider(), p.SelectedOCRLang())
	}
	if p.SelectedTranslationProvider() != "ocr_only" || p.SelectedTranslationLang() != "en" {
		t.Fatalf("translation prefs = %q %q", p.SelectedTranslationProvider(), p.SelectedTranslationLang())
	}
	if _, _, ok := p.LastSelection(); ok {
		t.Fatal("cli prefs should not remember selections")
	}
}

type stubRecognizer struct {
	text string
	err  error
}

func (r *stubRecognizer) Type() recognition.ProviderType     { return recognition.LLMVision }
func (r *stubRecognizer) Name() string                       { return "stub" }
func (r *stubRecognizer) DisplayLangCode(code string) string { return code }

func (r *stubRecognizer) SupportedLanguages(ctx context.Context) ([]recognition.Language, error) {
	return []recognition.Language{{Code: "es", InnerCode: "es", Provider: recognition.LLMVision}}, nil
}

func (r *stubRecognizer) Recognize(ctx context.Context, lang recognition.Language, img image.Image) (recognition.Result, error) {
	if r.err != nil {
		return recognition.Result{}, r.err
	}
	return recognition.Result{LangCode: lang.Code, Text: r.text}, nil
}

type stubTranslator struct {
	kind   translation.ProviderType
	result translation.Result
}

func (t *stubTranslator) Type() translation.ProviderType            { return t.kind }
func (t *stubTranslator) Hint() string                              { return "" }
func (t *stubTranslator) CheckEnvironment(ctx context.Context) bool { return true }

func (t *stubTranslator) SupportedLanguages(ctx context.Context) ([]translation.Language, error) {
	return []translation.Language{{Code: "es"}, {Code: "en"}}, nil
}

func (t *stubTranslator) Translate(ctx context.Context, text, sourceLangCode string) translation.Result {
	return t.result
}

func sessionOptions(t *testing.T, rec recognition.Recognizer, tr translation.Translator) (eventloop.Options, *overlay.Recorder) {
	t.Helper()
	recognizers, err := recognition.NewRegistry(recognition.LLMVision, rec)
	if err != nil {
		t.Fatal(err)
	}
	ext := screenshot.NewFileExtractor(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	prefs := &cliPrefs{ocrProvider: "llm_vision", ocrLang: "es", provider: tr.Type().Key(), target: "en"}
	opts := eventloop.Options{
		Extractor:   ext,
		Recognizers: recognizers,
		Translators: translation.NewRegistry(tr),
		Settings:    config.NewStore(config.DefaultSettings()),
		Prefs:       prefs,
		Telemetry:   telemetry.Discard{},
		SettleDelay: time.Millisecond,
		MinCropSize: 8,
	}
	return opts, &overlay.Recorder{Parent: ext.Bounds()}
}

func TestRunSessionDisplaysTranslation(t *testing.T) {
	opts, rec := sessionOptions(t,
		&stubRecognizer{text: "Hola"},
		&stubTranslator{kind: translation.LLM, result: translation.Translated{Text: "Hello"}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := runSession(ctx, opts, rec, "es")
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if out.display == nil {
		t.Fatal("expected a display")
	}
	if out.display.Kind != session.DisplayTranslated || out.display.TranslatedText != "Hello" || out.display.OCRText != "Hola" {
		t.Fatalf("display = %+v", *out.display)
	}

	var buf bytes.Buffer
	if err := outputResult(&buf, out, "in.png", time.Second, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello" {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestRunSessionOCROnlyJSON(t *testing.T) {
	opts, rec := sessionOptions(t, &stubRecognizer{text: "Hola"}, translation.OCROnlyTranslator{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := runSession(ctx, opts, rec, "es")
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}

	var buf bytes.Buffer
	if err := outputResult(&buf, out, "in.png", 2*time.Second, true); err != nil {
		t.Fatal(err)
	}
	var got TranslationResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got.Text != "Hola" || got.Language != "es" || got.Translation != "" || got.CharCount != 4 {
		t.Fatalf("result = %+v", got)
	}
	if got.Hint == "" || got.Source != "in.png" || got.Duration != 2 {
		t.Fatalf("result = %+v", got)
	}
}

func TestRunSessionReportsFailure(t *testing.T) {
	opts, rec := sessionOptions(t,
		&stubRecognizer{err: errors.New("vision backend down")},
		&stubTranslator{kind: translation.LLM})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := runSession(ctx, opts, rec, "es")
	if err == nil || !strings.Contains(err.Error(), "vision backend down") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunSessionExternalHandoff(t *testing.T) {
	opts, rec := sessionOptions(t,
		&stubRecognizer{text: "Hola"},
		&stubTranslator{kind: translation.ExternalApp, result: translation.OuterAppLaunched{}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := runSession(ctx, opts, rec, "es")
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if !out.handoff || out.display != nil {
		t.Fatalf("outcome = %+v", out)
	}

	var buf bytes.Buffer
	if err := outputResult(&buf, out, "in.png", time.Second, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "external translator") {
		t.Fatalf("output = %q", buf.String())
	}
}
