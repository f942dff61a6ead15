package gui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"onscreen-translator/src/session"
	"onscreen-translator/src/translation"
)

var cardColor = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xf0}

const cardWidth = 360

// cardContent is what the card shows for one Display.
type cardContent struct {
	OCR        string
	Translated string
	Hint       string
}

func contentFor(d session.Display) cardContent {
	c := cardContent{Hint: d.Hint}
	if d.LangCode != "" {
		c.OCR = fmt.Sprintf("[%s] %s", d.LangCode, d.OCRText)
	} else {
		c.OCR = d.OCRText
	}
	if d.Kind == session.DisplayTranslated {
		c.Translated = d.TranslatedText
		if d.HideOCRText && d.TranslatedText != "" {
			c.OCR = ""
		}
	}
	return c
}

// resultCard shows the recognized and translated text. It can be dragged
// around the overlay and fades when left alone.
type resultCard struct {
	widget.BaseWidget
	s *Surface

	bg         *canvas.Rectangle
	ocr        *widget.Label
	translated *widget.Label
	hint       *widget.Label
	busy       *widget.ProgressBarInfinite
	providers  *widget.Select
	keys       map[string]string
	copyText   string
}

func newResultCard(s *Surface) *resultCard {
	c := &resultCard{s: s, keys: map[string]string{}}
	c.bg = canvas.NewRectangle(cardColor)
	c.bg.CornerRadius = 8
	c.ocr = widget.NewLabel("")
	c.ocr.Wrapping = fyne.TextWrapWord
	c.translated = widget.NewLabel("")
	c.translated.Wrapping = fyne.TextWrapWord
	c.translated.TextStyle = fyne.TextStyle{Bold: true}
	c.hint = widget.NewLabel("")
	c.hint.Wrapping = fyne.TextWrapWord
	c.hint.Importance = widget.LowImportance
	c.busy = widget.NewProgressBarInfinite()
	c.busy.Hide()
	c.providers = widget.NewSelect(nil, func(name string) {
		if key, ok := c.keys[name]; ok {
			s.controller().SelectTranslator(key)
		}
	})
	c.Hide()
	c.ExtendBaseWidget(c)
	return c
}

func (c *resultCard) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ContentCopyIcon(), c.copy),
		widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() { c.s.controller().Retranslate() }),
		widget.NewButtonWithIcon("", theme.SettingsIcon(), c.s.ShowLanguages),
		widget.NewButtonWithIcon("", theme.CancelIcon(), func() { c.s.controller().Close() }),
	)
	body := container.NewVBox(c.ocr, c.translated, c.hint, c.busy, container.NewBorder(nil, nil, nil, buttons, c.providers))
	return widget.NewSimpleRenderer(container.NewStack(c.bg, container.NewPadded(body)))
}

func (c *resultCard) MinSize() fyne.Size {
	ms := c.BaseWidget.MinSize()
	return fyne.NewSize(max(ms.Width, cardWidth), ms.Height)
}

func (c *resultCard) setDisplay(d session.Display, providers []translation.Provider) {
	content := contentFor(d)
	setLabel(c.ocr, content.OCR)
	setLabel(c.translated, content.Translated)
	setLabel(c.hint, content.Hint)
	c.copyText = d.Text()

	names := make([]string, 0, len(providers))
	c.keys = make(map[string]string, len(providers))
	selected := ""
	for _, p := range providers {
		names = append(names, p.DisplayName)
		c.keys[p.DisplayName] = p.Key
		if p.Selected {
			selected = p.DisplayName
		}
	}
	c.providers.Options = names
	// Assigned directly so the change callback does not fire.
	c.providers.Selected = selected
	c.providers.Refresh()
	c.Refresh()
}

func setLabel(l *widget.Label, text string) {
	l.SetText(text)
	if text == "" {
		l.Hide()
	} else {
		l.Show()
	}
}

func (c *resultCard) setBusy(busy bool) {
	if busy {
		c.busy.Show()
		c.busy.Start()
	} else {
		c.busy.Stop()
		c.busy.Hide()
	}
}

func (c *resultCard) setOpacity(opacity float64) {
	c.bg.FillColor = fadedColor(cardColor, opacity)
	c.bg.Refresh()
}

func (c *resultCard) copy() {
	if c.s.opts.Clipboard == nil || c.copyText == "" {
		return
	}
	if err := c.s.opts.Clipboard.Write(c.copyText); err != nil {
		log.Printf("gui: copy failed: %v", err)
	}
}

func (c *resultCard) Dragged(ev *fyne.DragEvent) {
	c.Move(c.Position().Add(ev.Dragged))
	c.s.fader.wake()
}

func (c *resultCard) DragEnd() {
	c.s.cardMoved(c.Position())
}

var _ desktop.Hoverable = (*resultCard)(nil)

func (c *resultCard) MouseIn(*desktop.MouseEvent)    { c.s.fader.wake() }
func (c *resultCard) MouseMoved(*desktop.MouseEvent) {}
func (c *resultCard) MouseOut()                      {}
