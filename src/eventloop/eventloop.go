// Package eventloop runs the circle-to-translate session. All state lives on
// one goroutine; UI input and stage results arrive as messages on a channel.
package eventloop

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/messages"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
	"onscreen-translator/src/worker"
)

// Loop is the single-threaded coordinator for one circle-to-translate session
// at a time.
type Loop struct {
	opts    Options
	machine *session.Machine
	pool    *worker.Pool
	events  chan messages.Message
	done    chan struct{}
	started atomic.Bool

	// Owned by the Run goroutine.
	ctx         context.Context
	sessionID   string
	parent      geometry.Rect
	selection   geometry.Rect
	image       *screenshot.Image
	bitmapBox   geometry.Rect
	ocrLang     string
	recognizer  recognition.Recognizer
	recognized  recognition.Result
	gen         uint64
	cancelStage context.CancelFunc

	downloading atomic.Bool
}

// New creates a loop. Extractor, Recognizers, Translators, Surface, Settings
// and Prefs are required.
func New(opts Options) (*Loop, error) {
	switch {
	case opts.Extractor == nil:
		return nil, errors.New("eventloop: extractor is required")
	case opts.Recognizers == nil:
		return nil, errors.New("eventloop: recognizer registry is required")
	case opts.Translators == nil:
		return nil, errors.New("eventloop: translator registry is required")
	case opts.Surface == nil:
		return nil, errors.New("eventloop: surface is required")
	case opts.Settings == nil:
		return nil, errors.New("eventloop: settings are required")
	case opts.Prefs == nil:
		return nil, errors.New("eventloop: prefs are required")
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Discard{}
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.MinCropSize <= 0 {
		opts.MinCropSize = geometry.DefaultMinCropSize
	}

	l := &Loop{
		opts:   opts,
		pool:   worker.New(1),
		events: make(chan messages.Message, 16),
		done:   make(chan struct{}),
		ctx:    context.Background(),
	}
	l.machine = session.NewMachine(opts.OnStateChange)
	return l, nil
}

// Run processes events until ctx is cancelled. It may be called once.
// On return the session is closed and background stages have finished.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("eventloop: already running")
	}
	l.ctx = ctx
	defer l.pool.Close()
	defer close(l.done)
	defer l.shutdown()

	log.Printf("eventloop: running")
	for {
		select {
		case <-ctx.Done():
			log.Printf("eventloop: stopping: %v", ctx.Err())
			return ctx.Err()
		case msg := <-l.events:
			l.handle(msg)
		}
	}
}

// post delivers msg to the loop, or drops it once the loop has stopped.
func (l *Loop) post(msg messages.Message) bool {
	select {
	case l.events <- msg:
		return true
	case <-l.done:
		log.Printf("eventloop: dropped %s after shutdown", msg.Type())
		releaseIn(msg)
		return false
	}
}

func releaseIn(msg messages.Message) {
	if m, ok := msg.(messages.CaptureDone); ok {
		m.Image.Release()
	}
}

func (l *Loop) StartCircling()                        { l.post(messages.StartCircling{}) }
func (l *Loop) CancelCircling()                       { l.post(messages.CancelCircling{}) }
func (l *Loop) Retranslate()                          { l.post(messages.Retranslate{}) }
func (l *Loop) SelectTranslator(key string)           { l.post(messages.SelectTranslator{Key: key}) }
func (l *Loop) SelectTranslationLang(code string)     { l.post(messages.SelectTranslationLang{Code: code}) }
func (l *Loop) ResizeSelection(d geometry.EdgeDeltas) { l.post(messages.ResizeSelection{Deltas: d}) }

// SelectOCRLanguage stores the recognizer and language for later captures.
// A language whose model is missing is selected once the download finishes.
func (l *Loop) SelectOCRLanguage(provider recognition.ProviderType, code string) {
	l.post(messages.SelectOCRLanguage{Provider: provider, Code: code})
}

// DragFinished reports a completed drag inside parent.
func (l *Loop) DragFinished(parent geometry.Rect, start, end geometry.Point) {
	l.post(messages.DragFinished{Parent: parent, Start: start, End: end})
}

// StartCapture begins the capture pipeline. An empty ocrLang uses the stored choice.
func (l *Loop) StartCapture(ocrLang string) { l.post(messages.StartCapture{OCRLang: ocrLang}) }

// Close hides everything and returns to Idle. It is legal from any state.
func (l *Loop) Close() { l.post(messages.CloseAll{}) }

// State returns the current state as seen by the loop goroutine.
func (l *Loop) State(ctx context.Context) (session.State, error) {
	reply := make(chan session.State, 1)
	select {
	case l.events <- messages.StateQuery{Reply: reply}:
	case <-l.done:
		return nil, errors.New("eventloop: stopped")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-l.done:
		return nil, errors.New("eventloop: stopped")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loop) handle(msg messages.Message) {
	switch m := msg.(type) {
	case messages.StartCircling:
		l.onStartCircling()
	case messages.DragFinished:
		l.onDragFinished(m)
	case messages.ResizeSelection:
		l.onResize(m)
	case messages.CancelCircling:
		l.onCancelCircling()
	case messages.StartCapture:
		l.onStartCapture(m)
	case messages.Retranslate:
		l.onRetranslate()
	case messages.SelectTranslator:
		l.onSelectTranslator(m)
	case messages.SelectOCRLanguage:
		l.onSelectOCRLanguage(m)
	case messages.SelectTranslationLang:
		l.onSelectTranslationLang(m)
	case messages.CloseAll:
		l.backToIdle()
	case messages.CaptureDone:
		l.onCaptured(m)
	case messages.RecognitionDone:
		l.onRecognized(m)
	case messages.TranslationDone:
		l.onTranslated(m)
	case messages.StateQuery:
		m.Reply <- l.machine.State()
	default:
		log.Printf("eventloop: unknown message %T", msg)
	}
}

// stateIn guards an event: it reports whether the machine is in one of kinds
// and logs the ignored request otherwise.
func (l *Loop) stateIn(event string, kinds ...session.Kind) bool {
	if l.machine.In(kinds...) {
		return true
	}
	log.Printf("eventloop: %s ignored in state %s (allowed: %v)", event, l.machine.Kind(), kinds)
	return false
}

func (l *Loop) onStartCircling() {
	if !l.stateIn(messages.TypeStartCircling, session.KindIdle) {
		return
	}
	tr := l.translator()
	if tr != nil && !tr.CheckEnvironment(l.ctx) {
		log.Printf("eventloop: translator %s not ready, staying idle", tr.Type())
		return
	}
	if !l.modelReady() {
		return
	}
	if err := l.machine.Transition(session.Circling{}); err != nil {
		return
	}
	l.sessionID = telemetry.NewSessionID()
	l.record(telemetry.AreaSelectionStart, "", "")
	l.parent = l.opts.Surface.AttachSelection()

	if !l.opts.Settings.Settings().RememberLastSelection {
		return
	}
	sel, parent, ok := l.opts.Prefs.LastSelection()
	if !ok || parent.Empty() || geometry.Degenerate(l.parent, l.opts.MinCropSize) {
		return
	}
	restored := geometry.Clip(geometry.Scale(sel, parent, l.parent), l.parent)
	if restored.Empty() {
		return
	}
	l.setCircled(geometry.FixSize(restored, l.parent, l.opts.MinCropSize))
}

func (l *Loop) onDragFinished(m messages.DragFinished) {
	if !l.stateIn(messages.TypeDragFinished, session.KindCircling, session.KindCircled) {
		return
	}
	if geometry.Degenerate(m.Parent, l.opts.MinCropSize) {
		log.Printf("eventloop: degenerate parent %s, drag ignored", m.Parent)
		return
	}
	l.parent = m.Parent
	start := geometry.ClampPoint(m.Start, m.Parent)
	end := geometry.ClampPoint(m.End, m.Parent)
	box := geometry.FixSize(geometry.ComputeBox(start, end), m.Parent, l.opts.MinCropSize)
	l.setCircled(box)
}

func (l *Loop) onResize(m messages.ResizeSelection) {
	if !l.stateIn(messages.TypeResizeSelection, session.KindCircled) {
		return
	}
	l.setCircled(geometry.Resize(l.selection, m.Deltas, l.parent, l.opts.MinCropSize))
}

// setCircled enters Circled, or replaces the selection when already there.
func (l *Loop) setCircled(sel geometry.Rect) {
	next := session.Circled{Selection: sel, Parent: l.parent}
	var err error
	if l.machine.Kind() == session.KindCircled {
		err = l.machine.Update(next)
	} else {
		err = l.machine.Transition(next)
	}
	if err != nil {
		return
	}
	l.selection = sel
	l.opts.Surface.ShowCircled(sel)
	if l.opts.Settings.Settings().RememberLastSelection {
		l.opts.Prefs.SetLastSelection(sel, l.parent)
	}
}

func (l *Loop) onCancelCircling() {
	if !l.stateIn(messages.TypeCancelCircling, session.KindCircling, session.KindCircled) {
		return
	}
	l.backToIdle()
}

func (l *Loop) onRetranslate() {
	if !l.stateIn(messages.TypeRetranslate, session.KindDisplaying) {
		return
	}
	l.startTranslating()
}

func (l *Loop) onSelectTranslator(m messages.SelectTranslator) {
	l.opts.Prefs.SetSelectedTranslationProvider(m.Key)
	log.Printf("eventloop: translator set to %q", m.Key)
	l.refreshCatalog()
	l.retranslateShown()
}

func (l *Loop) onSelectTranslationLang(m messages.SelectTranslationLang) {
	l.opts.Prefs.SetSelectedTranslationLang(m.Code)
	log.Printf("eventloop: translation language set to %q", m.Code)
	l.refreshCatalog()
	l.retranslateShown()
}

// onSelectOCRLanguage applies to the next capture. A running session keeps
// the recognizer and language it started with.
func (l *Loop) onSelectOCRLanguage(m messages.SelectOCRLanguage) {
	rec, ok := l.opts.Recognizers.Get(m.Provider)
	if !ok {
		log.Printf("eventloop: unknown recognizer %q", m.Provider)
		return
	}
	if dl, ok := rec.(recognition.ModelDownloader); ok && !dl.HasModel(m.Code) {
		l.offerDownload(dl, rec.Name(), m.Code, func() { l.SelectOCRLanguage(m.Provider, m.Code) })
		// The picker goes back to the stored choice until the model is in.
		l.refreshCatalog()
		return
	}
	l.opts.Prefs.SetSelectedOCRProvider(string(m.Provider))
	l.opts.Prefs.SetSelectedOCRLang(m.Code)
	log.Printf("eventloop: OCR language set to %s/%s", m.Provider, m.Code)
	l.refreshCatalog()
}

// retranslateShown translates a shown result again after a choice changed.
func (l *Loop) retranslateShown() {
	if l.machine.Kind() != session.KindDisplaying {
		return
	}
	if tr := l.translator(); tr == nil || !tr.CheckEnvironment(l.ctx) {
		return
	}
	l.startTranslating()
}

// backToIdle cancels any running stage, releases the image and hides every
// transient surface. It does nothing when already Idle.
func (l *Loop) backToIdle() {
	l.endStage()
	l.releaseImage()
	if l.machine.Kind() == session.KindIdle {
		return
	}
	if err := l.machine.Transition(session.Idle{}); err != nil {
		return
	}
	l.opts.Surface.DetachSelection()
	l.opts.Surface.HideResult()
	l.recognized = recognition.Result{}
	l.recognizer = nil
	l.selection = geometry.Rect{}
	l.ocrLang = ""
}

func (l *Loop) shutdown() {
	l.backToIdle()
}

func (l *Loop) releaseImage() {
	if l.image != nil {
		l.image.Release()
		l.image = nil
	}
}

func (l *Loop) translator() translation.Translator {
	return l.opts.Translators.FromKey(l.opts.Prefs.SelectedTranslationProvider())
}

func (l *Loop) selectedRecognizer() recognition.Recognizer {
	return l.opts.Recognizers.FromKey(l.opts.Prefs.SelectedOCRProvider())
}

func (l *Loop) record(name, provider, detail string) {
	l.opts.Telemetry.Record(telemetry.Event{
		SessionID: l.sessionID,
		Name:      name,
		Provider:  provider,
		Detail:    detail,
	})
}
