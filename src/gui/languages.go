package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
)

const (
	languagePanelWidth = 420
	catalogTimeout     = 10 * time.Second
)

// options are the entries of one select: labels in order, the selected
// label, and the value behind each label.
type options[T any] struct {
	labels   []string
	selected string
	values   map[string]T
}

func newOptions[T any]() options[T] {
	return options[T]{values: map[string]T{}}
}

func (o *options[T]) add(label string, v T, selected bool) {
	o.labels = append(o.labels, label)
	o.values[label] = v
	if selected {
		o.selected = label
	}
}

type pickerState struct {
	ocr       options[recognition.Language]
	providers options[string]
	targets   options[string]
	hint      string
}

func pickerFor(c overlay.Catalog) pickerState {
	st := pickerState{
		ocr:       newOptions[recognition.Language](),
		providers: newOptions[string](),
		targets:   newOptions[string](),
		hint:      c.Hint,
	}
	for _, l := range c.OCRLanguages {
		st.ocr.add(ocrLabel(l), l, l.Selected)
	}
	for _, p := range c.Providers {
		st.providers.add(p.DisplayName, p.Key, p.Selected)
	}
	for _, l := range c.TranslationLanguages {
		label := l.DisplayName
		if label == "" {
			label = l.Code
		}
		st.targets.add(label, l.Code, l.Selected)
	}
	return st
}

// ocrLabel names an OCR language with its engine. Languages without a local
// model are marked; picking one offers the download.
func ocrLabel(l recognition.Language) string {
	label := fmt.Sprintf("%s - %s", l.DisplayName, l.Provider.DisplayName())
	if !l.Downloaded {
		label += " (download)"
	}
	return label
}

// languagePanel picks the OCR language, the translator and the target
// language. Choices go to the controller, which stores them and asks for a
// refresh.
type languagePanel struct {
	s     *Surface
	win   fyne.Window
	shown bool
	state pickerState

	ocr      *widget.Select
	provider *widget.Select
	target   *widget.Select
	hint     *widget.Label
}

func newLanguagePanel(s *Surface) *languagePanel {
	p := &languagePanel{s: s, state: pickerFor(overlay.Catalog{})}
	p.ocr = widget.NewSelect(nil, func(label string) {
		if l, ok := p.state.ocr.values[label]; ok {
			s.controller().SelectOCRLanguage(l.Provider, l.Code)
		}
	})
	p.provider = widget.NewSelect(nil, func(label string) {
		if key, ok := p.state.providers.values[label]; ok {
			s.controller().SelectTranslator(key)
		}
	})
	p.target = widget.NewSelect(nil, func(label string) {
		if code, ok := p.state.targets.values[label]; ok {
			s.controller().SelectTranslationLang(code)
		}
	})
	p.hint = widget.NewLabel("")
	p.hint.Wrapping = fyne.TextWrapWord
	p.hint.Importance = widget.LowImportance
	p.hint.Hide()

	form := widget.NewForm(
		widget.NewFormItem("Recognize", p.ocr),
		widget.NewFormItem("Translator", p.provider),
		widget.NewFormItem("Translate to", p.target),
	)
	p.win = s.opts.App.NewWindow("Languages")
	p.win.SetContent(container.NewPadded(container.NewVBox(form, p.hint)))
	p.win.Resize(fyne.NewSize(languagePanelWidth, 0))
	p.win.SetCloseIntercept(p.hide)
	return p
}

func (p *languagePanel) show() {
	p.shown = true
	p.win.Show()
	p.win.RequestFocus()
}

func (p *languagePanel) hide() {
	p.shown = false
	p.win.Hide()
}

func (p *languagePanel) apply(st pickerState) {
	p.state = st
	setOptions(p.ocr, st.ocr)
	setOptions(p.provider, st.providers)
	setOptions(p.target, st.targets)
	if len(st.targets.labels) == 0 {
		p.target.Disable()
	} else {
		p.target.Enable()
	}
	setLabel(p.hint, st.hint)
}

func setOptions[T any](sel *widget.Select, o options[T]) {
	sel.Options = o.labels
	// Assigned directly so the change callback does not fire.
	sel.Selected = o.selected
	sel.Refresh()
}

// ShowLanguages opens the language picker.
func (s *Surface) ShowLanguages() {
	fyne.Do(s.langs.show)
	go s.loadCatalog()
}

// RefreshCatalog reloads the picker when it is open.
func (s *Surface) RefreshCatalog() {
	fyne.Do(func() {
		if s.langs.shown {
			go s.loadCatalog()
		}
	})
}

func (s *Surface) loadCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()
	st := pickerFor(s.controller().Catalog(ctx))
	fyne.Do(func() { s.langs.apply(st) })
}
