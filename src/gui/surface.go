// Package gui is the fyne surface of the translator: a full-screen selection
// overlay over a frozen screenshot, a draggable result card and prompts.
package gui

import (
	"context"
	"image"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"onscreen-translator/src/config"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/session"
	"onscreen-translator/src/translation"
)

// Controller receives user input. eventloop.Loop implements it.
type Controller interface {
	StartCircling()
	DragFinished(parent geometry.Rect, start, end geometry.Point)
	ResizeSelection(d geometry.EdgeDeltas)
	CancelCircling()
	StartCapture(ocrLang string)
	Retranslate()
	SelectTranslator(key string)
	SelectOCRLanguage(provider recognition.ProviderType, code string)
	SelectTranslationLang(code string)
	Catalog(ctx context.Context) overlay.Catalog
	Close()
}

type SettingsSource interface {
	Settings() config.Settings
}

// CardPrefs remembers where the user left the result card.
type CardPrefs interface {
	LastBarPosition() (geometry.Point, bool)
	SetLastBarPosition(p geometry.Point)
}

type Copier interface {
	Write(text string) error
}

type Options struct {
	App fyne.App
	// Parent is the physical screen area the overlay covers.
	Parent geometry.Rect
	// Backdrop grabs the screen shown frozen behind the overlay.
	Backdrop  func() (image.Image, error)
	Settings  SettingsSource
	Prefs     CardPrefs
	Clipboard Copier
	// Providers lists translation providers with the current one selected.
	Providers func() []translation.Provider
}

// Surface implements overlay.Surface on fyne. Create it on the fyne main
// goroutine before the app runs; its methods may then be called from any
// goroutine.
type Surface struct {
	opts Options

	mu  sync.Mutex
	ctl Controller

	win      fyne.Window
	backdrop *canvas.Image
	area     *selectionArea
	card     *resultCard
	layer    *fyne.Container
	fader    *fader
	prompts  *prompter
	langs    *languagePanel
	visible  bool
	resultOn bool
}

func New(opts Options) *Surface {
	s := &Surface{opts: opts}
	if drv, ok := opts.App.Driver().(desktop.Driver); ok {
		s.win = drv.CreateSplashWindow()
	} else {
		s.win = opts.App.NewWindow("Translate area")
	}
	s.win.SetPadded(false)
	s.win.SetFullScreen(true)

	s.backdrop = canvas.NewImageFromImage(nil)
	s.backdrop.FillMode = canvas.ImageFillStretch
	s.area = newSelectionArea(opts.Parent, s)
	s.card = newResultCard(s)
	s.fader = newFader(s.card.setOpacity)
	s.layer = container.NewWithoutLayout(s.card)
	s.win.SetContent(container.NewStack(s.backdrop, s.area, s.layer))
	s.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			s.controller().Close()
		}
	})
	s.win.SetCloseIntercept(func() { s.controller().Close() })
	s.prompts = newPrompter(opts.App)
	s.langs = newLanguagePanel(s)
	return s
}

// Bind connects user input to c.
func (s *Surface) Bind(c Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl = c
}

func (s *Surface) controller() Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctl == nil {
		return nopController{}
	}
	return s.ctl
}

func (s *Surface) AttachSelection() geometry.Rect {
	fyne.Do(func() {
		s.refreshBackdrop()
		s.area.reset()
		s.area.Show()
		s.hideCard()
		s.show()
	})
	return s.opts.Parent
}

func (s *Surface) refreshBackdrop() {
	if s.opts.Backdrop == nil {
		return
	}
	img, err := s.opts.Backdrop()
	if err != nil {
		log.Printf("gui: backdrop capture failed: %v", err)
		return
	}
	s.backdrop.Image = img
	s.backdrop.Refresh()
}

func (s *Surface) ShowCircled(sel geometry.Rect) {
	fyne.Do(func() { s.area.setCircled(sel) })
}

func (s *Surface) DetachSelection() {
	fyne.Do(func() {
		s.area.reset()
		s.area.Hide()
		if !s.resultOn {
			s.hide()
		}
	})
}

func (s *Surface) ShowProgress(stage session.Kind) {
	log.Printf("gui: %s", stage)
	if stage == session.KindTranslating {
		fyne.Do(func() {
			if s.resultOn {
				s.card.setBusy(true)
			}
		})
	}
}

func (s *Surface) ShowResult(d session.Display) {
	fyne.Do(func() {
		s.card.setDisplay(d, s.providers())
		s.card.setBusy(false)
		s.placeCard(d.Selection)
		s.card.Show()
		s.resultOn = true
		s.show()
		st := s.settings()
		s.fader.start(st.FadeOutEnabled, st.FadeOutDelaySeconds, st.FadeOutOpacity)
	})
}

func (s *Surface) HideResult() {
	fyne.Do(func() {
		s.hideCard()
		if !s.area.Visible() {
			s.hide()
		}
	})
}

func (s *Surface) ShowError(message string) {
	fyne.Do(func() { s.prompts.showError(message) })
}

func (s *Surface) hideCard() {
	s.fader.stop()
	s.card.Hide()
	s.resultOn = false
}

func (s *Surface) show() {
	if !s.visible {
		s.win.Show()
		s.visible = true
	}
}

func (s *Surface) hide() {
	if s.visible {
		s.win.Hide()
		s.visible = false
	}
}

// placeCard puts the card at the remembered position, or next to sel.
func (s *Surface) placeCard(sel geometry.Rect) {
	size := s.card.MinSize()
	s.card.Resize(size)
	canvasSize := s.win.Canvas().Size()
	sc := scaler{parent: s.opts.Parent, size: canvasSize}

	if s.settings().RestoreLastPosition && s.opts.Prefs != nil {
		if p, ok := s.opts.Prefs.LastBarPosition(); ok {
			s.card.Move(clampPosition(sc.toCanvasPoint(p), size, canvasSize))
			return
		}
	}
	pos, selSize := sc.toCanvas(sel)
	s.card.Move(cardPosition(pos, selSize, size, canvasSize))
}

// cardMoved stores where the user dragged the card.
func (s *Surface) cardMoved(pos fyne.Position) {
	if s.opts.Prefs == nil || !s.settings().RestoreLastPosition {
		return
	}
	sc := scaler{parent: s.opts.Parent, size: s.win.Canvas().Size()}
	s.opts.Prefs.SetLastBarPosition(sc.toParent(pos))
}

func (s *Surface) settings() config.Settings {
	if s.opts.Settings == nil {
		return config.DefaultSettings()
	}
	return s.opts.Settings.Settings()
}

func (s *Surface) providers() []translation.Provider {
	if s.opts.Providers == nil {
		return nil
	}
	return s.opts.Providers()
}

type nopController struct{}

func (nopController) StartCircling()                                             {}
func (nopController) DragFinished(geometry.Rect, geometry.Point, geometry.Point) {}
func (nopController) ResizeSelection(geometry.EdgeDeltas)                        {}
func (nopController) CancelCircling()                                            {}
func (nopController) StartCapture(string)                                        {}
func (nopController) Retranslate()                                               {}
func (nopController) SelectTranslator(string)                                    {}
func (nopController) SelectOCRLanguage(recognition.ProviderType, string)         {}
func (nopController) SelectTranslationLang(string)                               {}
func (nopController) Catalog(context.Context) overlay.Catalog                    { return overlay.Catalog{} }
func (nopController) Close()                                                     {}
