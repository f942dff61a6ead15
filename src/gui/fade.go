package gui

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// fadedColor scales the alpha of c by opacity, clamped to [0, 1].
func fadedColor(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = min(max(opacity, 0), 1)
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

// fader dims the result card after a delay and restores it on interaction.
type fader struct {
	apply func(opacity float64)
	do    func(func())

	mu      sync.Mutex
	timer   *time.Timer
	enabled bool
	delay   time.Duration
	opacity float64
}

func newFader(apply func(float64)) *fader {
	return &fader{apply: apply, do: fyne.Do}
}

// start shows the card at full opacity and, when enabled, fades it to
// opacity after delaySec seconds.
func (f *fader) start(enabled bool, delaySec int, opacity float64) {
	f.startAfter(enabled, time.Duration(delaySec)*time.Second, opacity)
}

func (f *fader) startAfter(enabled bool, delay time.Duration, opacity float64) {
	f.mu.Lock()
	f.enabled, f.delay, f.opacity = enabled, delay, opacity
	f.mu.Unlock()
	f.wake()
}

// wake restores full opacity and restarts the countdown.
func (f *fader) wake() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.apply(1)
	if !f.enabled || f.delay <= 0 {
		return
	}
	opacity := f.opacity
	f.timer = time.AfterFunc(f.delay, func() {
		f.do(func() { f.apply(opacity) })
	})
}

func (f *fader) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.enabled = false
}
