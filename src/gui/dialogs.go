package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"onscreen-translator/src/dialog"
)

// prompter shows dialogs in a small window of their own, since the overlay
// is hidden most of the time. Only used on the fyne goroutine.
type prompter struct {
	app  fyne.App
	win  fyne.Window
	open int
}

func newPrompter(app fyne.App) *prompter {
	return &prompter{app: app}
}

func (p *prompter) window() fyne.Window {
	if p.win == nil {
		p.win = p.app.NewWindow("Onscreen Translator")
		p.win.Resize(fyne.NewSize(420, 180))
		p.win.SetCloseIntercept(func() { p.win.Hide() })
	}
	return p.win
}

// handle lets a dismiss call race with the dialog being shown.
type handle struct {
	dlg        fynedialog.Dialog
	dismissed  bool
	programmed bool
}

func (p *prompter) show(d dialog.Dialog, h *handle) {
	if h.dismissed {
		return
	}
	win := p.window()
	done := func(ok bool) {
		p.closed()
		if h.programmed {
			return
		}
		if ok && d.OnOK != nil {
			d.OnOK()
		}
		if !ok && d.OnCancel != nil {
			d.OnCancel()
		}
	}

	switch d.Kind {
	case dialog.ConfirmCancel:
		h.dlg = fynedialog.NewConfirm(d.Title, d.Message, done, win)
	case dialog.CancelOnly:
		body := container.NewVBox(widget.NewLabel(d.Message), widget.NewProgressBarInfinite())
		c := fynedialog.NewCustom(d.Title, "Cancel", body, win)
		c.SetOnClosed(func() { done(false) })
		h.dlg = c
	default:
		info := fynedialog.NewInformation(d.Title, d.Message, win)
		info.SetOnClosed(func() { done(true) })
		h.dlg = info
	}
	p.open++
	win.Show()
	h.dlg.Show()
}

func (p *prompter) closed() {
	p.open--
	if p.open <= 0 {
		p.open = 0
		p.window().Hide()
	}
}

func (p *prompter) dismiss(h *handle) {
	h.dismissed = true
	if h.dlg != nil && !h.programmed {
		h.programmed = true
		h.dlg.Hide()
	}
}

func (p *prompter) showError(message string) {
	p.show(dialog.Dialog{Title: "Error", Message: message, Kind: dialog.ConfirmOnly}, &handle{})
}

// ShowDialog implements dialog.Prompter. It may be called from any goroutine.
func (s *Surface) ShowDialog(d dialog.Dialog) func() {
	h := &handle{}
	fyne.Do(func() { s.prompts.show(d, h) })
	return func() {
		fyne.Do(func() { s.prompts.dismiss(h) })
	}
}
