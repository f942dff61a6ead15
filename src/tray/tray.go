// Package tray puts the translator in the system tray.
package tray

import (
	"log"
	"runtime"

	"github.com/getlantern/systray"
)

// Actions are the menu callbacks. Nil actions are left out of the menu.
type Actions struct {
	StartCircling func()
	Retranslate   func()
	Languages     func()
	CloseAll      func()
	Quit          func()
}

type Config struct {
	Title   string
	Tooltip string
	Actions Actions
}

type item struct {
	title   string
	tooltip string
	run     func()
}

func menuItems(a Actions) []item {
	all := []item{
		{"Translate area", "Circle an area of the screen to translate", a.StartCircling},
		{"Re-translate", "Translate the shown text again", a.Retranslate},
		{"Languages...", "Choose the OCR language and the translation target", a.Languages},
		{"Hide all", "Close the selection and the result", a.CloseAll},
	}
	items := all[:0]
	for _, it := range all {
		if it.run != nil {
			items = append(items, it)
		}
	}
	return items
}

type Tray struct {
	cfg Config
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg}
}

// Run shows the tray icon and blocks until Quit. It locks its OS thread so
// the tray's message loop stays on one thread.
func (t *Tray) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(Icon())
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	for _, it := range menuItems(t.cfg.Actions) {
		mi := systray.AddMenuItem(it.title, it.tooltip)
		go func(run func()) {
			for range mi.ClickedCh {
				run()
			}
		}(it.run)
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")
	go func() {
		<-mQuit.ClickedCh
		log.Printf("tray: quit requested")
		systray.Quit()
	}()
}

func (t *Tray) onExit() {
	if t.cfg.Actions.Quit != nil {
		t.cfg.Actions.Quit()
	}
}

func (t *Tray) SetTooltip(text string) { systray.SetTooltip(text) }

// Destroy removes the icon.
func (t *Tray) Destroy() { systray.Quit() }
