package gui

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/session"
	"onscreen-translator/src/translation"
)

var (
	_ overlay.Surface       = (*Surface)(nil)
	_ overlay.CatalogViewer = (*Surface)(nil)
)

func TestScalerRoundTrip(t *testing.T) {
	sc := scaler{
		parent: geometry.Rect{Left: 0, Top: 0, Right: 2880, Bottom: 1800},
		size:   fyne.NewSize(1440, 900),
	}
	if got := sc.toParent(fyne.NewPos(100, 50)); got != (geometry.Point{X: 200, Y: 100}) {
		t.Fatalf("toParent() = %v", got)
	}
	pos, size := sc.toCanvas(geometry.Rect{Left: 200, Top: 100, Right: 400, Bottom: 300})
	if pos != fyne.NewPos(100, 50) || size != fyne.NewSize(100, 100) {
		t.Fatalf("toCanvas() = %v %v", pos, size)
	}
}

func TestScalerZeroSize(t *testing.T) {
	sc := scaler{parent: geometry.Rect{Left: 10, Top: 20, Right: 110, Bottom: 120}}
	if got := sc.toParent(fyne.NewPos(5, 5)); got != (geometry.Point{X: 15, Y: 25}) {
		t.Fatalf("toParent() = %v", got)
	}
}

func TestCardPosition(t *testing.T) {
	canvasSize := fyne.NewSize(1000, 800)
	card := fyne.NewSize(300, 200)

	below := cardPosition(fyne.NewPos(100, 100), fyne.NewSize(200, 100), card, canvasSize)
	if below != fyne.NewPos(100, 208) {
		t.Fatalf("below = %v", below)
	}
	above := cardPosition(fyne.NewPos(100, 500), fyne.NewSize(200, 200), card, canvasSize)
	if above != fyne.NewPos(100, 292) {
		t.Fatalf("above = %v", above)
	}
	clamped := cardPosition(fyne.NewPos(900, 0), fyne.NewSize(100, 700), card, canvasSize)
	if clamped.X != 700 || clamped.Y+card.Height > canvasSize.Height {
		t.Fatalf("clamped = %v", clamped)
	}
}

func TestGrabEdges(t *testing.T) {
	sel := geometry.Rect{Left: 100, Top: 100, Right: 300, Bottom: 200}
	tests := []struct {
		name string
		p    geometry.Point
		want edgeMask
	}{
		{"inside", geometry.Point{X: 200, Y: 150}, 0},
		{"outside", geometry.Point{X: 500, Y: 500}, 0},
		{"left", geometry.Point{X: 95, Y: 150}, edgeLeft},
		{"right", geometry.Point{X: 305, Y: 150}, edgeRight},
		{"top", geometry.Point{X: 200, Y: 110}, edgeTop},
		{"bottom-right", geometry.Point{X: 298, Y: 202}, edgeRight | edgeBottom},
		{"top-left", geometry.Point{X: 100, Y: 100}, edgeLeft | edgeTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grabEdges(sel, tt.p, grabSlop); got != tt.want {
				t.Fatalf("grabEdges(%v) = %b, want %b", tt.p, got, tt.want)
			}
		})
	}
	if got := grabEdges(geometry.Rect{}, geometry.Point{}, grabSlop); got != 0 {
		t.Fatalf("empty selection grabbed %b", got)
	}
}

func TestEdgeMaskDeltas(t *testing.T) {
	got := (edgeLeft | edgeBottom).deltas(5, -7)
	want := geometry.EdgeDeltas{Left: 5, Bottom: -7}
	if got != want {
		t.Fatalf("deltas = %+v, want %+v", got, want)
	}
}

func TestContentFor(t *testing.T) {
	d := session.Display{
		Kind:           session.DisplayTranslated,
		OCRText:        "Hola",
		LangCode:       "es",
		TranslatedText: "Hello",
	}
	if c := contentFor(d); c.OCR != "[es] Hola" || c.Translated != "Hello" {
		t.Fatalf("content = %+v", c)
	}
	d.HideOCRText = true
	if c := contentFor(d); c.OCR != "" || c.Translated != "Hello" {
		t.Fatalf("hidden content = %+v", c)
	}

	ocrOnly := session.Display{Kind: session.DisplayOCROnly, OCRText: "Hola", Hint: "pick a translator", HideOCRText: true}
	if c := contentFor(ocrOnly); c.OCR != "Hola" || c.Translated != "" || c.Hint != "pick a translator" {
		t.Fatalf("ocr-only content = %+v", c)
	}
}

func TestFadedColor(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 200}
	if got := fadedColor(c, 0.5); got.A != 100 || got.R != 1 {
		t.Fatalf("fadedColor() = %v", got)
	}
	if got := fadedColor(c, 2); got.A != 200 {
		t.Fatalf("opacity not clamped: %v", got)
	}
	if got := fadedColor(c, -1); got.A != 0 {
		t.Fatalf("opacity not clamped: %v", got)
	}
}

func TestFaderDimsThenWakes(t *testing.T) {
	var mu sync.Mutex
	var applied []float64
	f := newFader(func(o float64) {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, o)
	})
	f.do = func(fn func()) { fn() }
	last := func() (float64, int) {
		mu.Lock()
		defer mu.Unlock()
		return applied[len(applied)-1], len(applied)
	}

	f.startAfter(true, 50*time.Millisecond, 0.2)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if o, _ := last(); o == 0.2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("card never faded")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f.wake()
	if o, _ := last(); o != 1 {
		t.Fatalf("opacity after wake = %v", o)
	}
	f.stop()
	_, n := last()
	time.Sleep(100 * time.Millisecond)
	if _, m := last(); m != n {
		t.Fatal("faded after stop")
	}
}

func TestFaderDisabled(t *testing.T) {
	var applied []float64
	f := newFader(func(o float64) { applied = append(applied, o) })
	f.do = func(fn func()) { fn() }
	f.startAfter(false, time.Millisecond, 0.2)
	time.Sleep(20 * time.Millisecond)
	if len(applied) != 1 || applied[0] != 1 {
		t.Fatalf("applied = %v", applied)
	}
}

func TestPickerFor(t *testing.T) {
	c := overlay.Catalog{
		OCRLanguages: []recognition.Language{
			{Code: "es", DisplayName: "Spanish", Provider: recognition.LLMVision, Downloaded: true, Selected: true},
			{Code: "ja", DisplayName: "Japanese", Provider: recognition.Tesseract},
		},
		Providers: []translation.Provider{
			{Key: "llm", DisplayName: "LLM translation", Selected: true},
			{Key: "ocr_only", DisplayName: "No translation"},
		},
		TranslationLanguages: []translation.Language{
			{Code: "en", DisplayName: "English"},
			{Code: "de", Selected: true},
		},
	}
	st := pickerFor(c)

	wantOCR := []string{"Spanish - LLM Vision (online)", "Japanese - Tesseract (offline) (download)"}
	if len(st.ocr.labels) != 2 || st.ocr.labels[0] != wantOCR[0] || st.ocr.labels[1] != wantOCR[1] {
		t.Fatalf("ocr labels = %q", st.ocr.labels)
	}
	if st.ocr.selected != wantOCR[0] {
		t.Fatalf("ocr selected = %q", st.ocr.selected)
	}
	if l := st.ocr.values[wantOCR[1]]; l.Code != "ja" || l.Provider != recognition.Tesseract {
		t.Fatalf("ocr value = %+v", l)
	}
	if st.providers.selected != "LLM translation" || st.providers.values["No translation"] != "ocr_only" {
		t.Fatalf("providers = %+v", st.providers)
	}
	if st.targets.selected != "de" || st.targets.values["English"] != "en" {
		t.Fatalf("targets = %+v", st.targets)
	}
}

func TestPickerForEmptyTargetsKeepsHint(t *testing.T) {
	st := pickerFor(overlay.Catalog{Hint: "pick a translator"})
	if len(st.targets.labels) != 0 || st.targets.selected != "" || st.hint != "pick a translator" {
		t.Fatalf("state = %+v", st)
	}
}
