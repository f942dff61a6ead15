package eventloop

import (
	"context"
	"errors"
	"log"
	"time"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/logutil"
	"onscreen-translator/src/messages"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
	"onscreen-translator/src/worker"
)

// beginStage cancels the previous stage and returns the generation and
// context of a new one. Results carrying an older generation are stale.
func (l *Loop) beginStage() (uint64, context.Context) {
	l.endStage()
	ctx, cancel := context.WithCancel(l.ctx)
	l.cancelStage = cancel
	return l.gen, ctx
}

func (l *Loop) endStage() {
	if l.cancelStage != nil {
		l.cancelStage()
		l.cancelStage = nil
	}
	l.gen++
}

// submit runs task on the worker. A full worker fails the session.
func (l *Loop) submit(ctx context.Context, name string, task worker.Task) bool {
	if l.pool.Submit(ctx, name, task) {
		return true
	}
	log.Printf("eventloop: worker busy, %s not started", name)
	l.fail(ErrBusy.Error())
	return false
}

func (l *Loop) onStartCapture(m messages.StartCapture) {
	if !l.stateIn(messages.TypeStartCapture, session.KindCircled) {
		return
	}
	l.ocrLang = m.OCRLang
	if l.ocrLang == "" {
		l.ocrLang = l.opts.Prefs.SelectedOCRLang()
	}
	l.recognizer = l.selectedRecognizer()
	if err := l.machine.Transition(session.Capturing{}); err != nil {
		return
	}
	l.opts.Surface.DetachSelection()
	l.opts.Surface.ShowProgress(session.KindCapturing)
	l.record(telemetry.CaptureStart, "", l.selection.String())

	gen, ctx := l.beginStage()
	parent, crop := l.parent, l.selection
	timeout := time.Duration(l.opts.Settings.Settings().CaptureTimeoutSeconds) * time.Second
	l.submit(ctx, "capture", func(ctx context.Context) {
		img, err := l.capture(ctx, parent, crop, timeout)
		l.post(messages.CaptureDone{Gen: gen, Image: img, Err: err})
	})
}

// capture waits for the overlay to settle, then extracts crop bounded by timeout.
func (l *Loop) capture(ctx context.Context, parent, crop geometry.Rect, timeout time.Duration) (*screenshot.Image, error) {
	if err := sleep(ctx, l.opts.SettleDelay); err != nil {
		return nil, err
	}
	if !l.opts.Extractor.IsGranted() {
		return nil, screenshot.ErrNotGranted
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type extracted struct {
		img *screenshot.Image
		err error
	}
	ch := make(chan extracted, 1)
	go func() {
		img, err := l.opts.Extractor.Extract(cctx, parent, crop)
		ch <- extracted{img, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, ErrCaptureTimeout
		}
		return r.img, r.err
	case <-cctx.Done():
		// The extractor may still deliver an image after we gave up.
		go func() { (<-ch).img.Release() }()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrCaptureTimeout
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// current reports whether a stage result belongs to the running stage.
func (l *Loop) current(gen uint64, event string, kind session.Kind) bool {
	if gen != l.gen {
		log.Printf("eventloop: stale %s (gen %d, current %d) dropped", event, gen, l.gen)
		return false
	}
	return l.stateIn(event, kind)
}

func (l *Loop) onCaptured(m messages.CaptureDone) {
	if !l.current(m.Gen, messages.TypeCaptureDone, session.KindCapturing) {
		m.Image.Release()
		return
	}
	if m.Err != nil {
		l.record(telemetry.CaptureFail, "", m.Err.Error())
		l.fail(captureMessage(m.Err))
		return
	}
	if m.Image == nil {
		l.record(telemetry.CaptureFail, "", ErrNoImage.Error())
		l.fail(MsgCaptureUnknown)
		return
	}
	bmp := m.Image.Bitmap()
	if bmp == nil {
		l.record(telemetry.CaptureFail, "", ErrImageReleased.Error())
		l.fail(MsgCaptureUnknown)
		return
	}
	l.releaseImage()
	l.image = m.Image
	l.bitmapBox = recognition.ImageBox(bmp)
	l.record(telemetry.CaptureEnd, "", l.bitmapBox.String())
	l.startRecognizing()
}

func (l *Loop) startRecognizing() {
	if err := l.machine.Transition(session.Recognizing{}); err != nil {
		return
	}
	l.opts.Surface.ShowProgress(session.KindRecognizing)
	rec, code, img := l.recognizer, l.ocrLang, l.image
	l.record(telemetry.OCRStart, rec.Name(), code)

	gen, ctx := l.beginStage()
	l.submit(ctx, "recognize", func(ctx context.Context) {
		res, err := recognize(ctx, rec, code, img)
		l.post(messages.RecognitionDone{Gen: gen, Result: res, Err: err})
	})
}

func recognize(ctx context.Context, rec recognition.Recognizer, code string, img *screenshot.Image) (recognition.Result, error) {
	langs, err := rec.SupportedLanguages(ctx)
	if err != nil {
		return recognition.Result{}, recognition.NewBackendError(rec.Name(), err)
	}
	lang, ok := recognition.Find(langs, code)
	if !ok {
		return recognition.Result{}, recognition.NewUnsupportedLanguageError(code)
	}
	bmp := img.Bitmap()
	if bmp == nil {
		return recognition.Result{}, ErrImageReleased
	}
	return rec.Recognize(ctx, lang, bmp)
}

func (l *Loop) onRecognized(m messages.RecognitionDone) {
	if !l.current(m.Gen, messages.TypeRecognitionDone, session.KindRecognizing) {
		return
	}
	l.releaseImage()
	if m.Err != nil {
		l.record(telemetry.OCRFail, l.recognizer.Name(), m.Err.Error())
		l.fail(recognitionMessage(m.Err))
		return
	}
	l.recognized = m.Result
	if l.recognized.LangCode == "" {
		l.recognized.LangCode = l.ocrLang
	}
	log.Printf("eventloop: recognized [%s] %s", l.recognized.LangCode, logutil.Sanitize(l.recognized.Text))
	l.record(telemetry.OCREnd, l.recognizer.Name(), l.recognized.LangCode)
	l.startTranslating()
}

// startTranslating translates the retained recognition result with the
// selected translator. It is entered from Recognizing and from Displaying.
func (l *Loop) startTranslating() {
	tr := l.translator()
	if tr == nil {
		l.fail(MsgTranslationUnknown)
		return
	}
	if err := l.machine.Transition(session.Translating{}); err != nil {
		return
	}
	l.opts.Surface.ShowProgress(session.KindTranslating)
	text, lang := l.recognized.Text, l.recognized.LangCode
	l.record(telemetry.TranslationStart, string(tr.Type()), lang)

	gen, ctx := l.beginStage()
	l.submit(ctx, "translate", func(ctx context.Context) {
		res := tr.Translate(ctx, text, lang)
		l.post(messages.TranslationDone{Gen: gen, Provider: tr.Type(), Result: res})
	})
}

func (l *Loop) onTranslated(m messages.TranslationDone) {
	if !l.current(m.Gen, messages.TypeTranslationDone, session.KindTranslating) {
		return
	}
	provider := string(m.Provider)
	log.Printf("eventloop: translation done: %s", translation.Describe(m.Result))

	switch r := m.Result.(type) {
	case translation.OuterAppLaunched:
		l.record(telemetry.TranslationEnd, provider, "outer app")
		l.backToIdle()
	case translation.SourceLangNotSupported:
		l.record(telemetry.SourceLangNotSupported, provider, l.recognized.LangCode)
		d := l.baseDisplay(session.DisplayUnsupportedLang)
		d.Provider = provider
		d.Hint = "The selected translator does not support " + l.displayLang()
		l.display(d)
	case translation.OCROnlyResult:
		l.record(telemetry.TranslationEnd, provider, "ocr only")
		d := l.baseDisplay(session.DisplayOCROnly)
		d.Provider = provider
		if tr, ok := l.opts.Translators.Get(m.Provider); ok {
			d.Hint = tr.Hint()
		}
		l.display(d)
	case translation.Translated:
		l.record(telemetry.TranslationEnd, provider, "")
		d := l.baseDisplay(session.DisplayTranslated)
		d.TranslatedText = r.Text
		d.Provider = provider
		d.HideOCRText = l.opts.Settings.Settings().HideRecognizedAfterTranslate
		l.display(d)
	case translation.Failed:
		l.record(telemetry.TranslationFail, provider, r.Error())
		l.fail(translationMessage(r))
	default:
		l.record(telemetry.TranslationFail, provider, "unknown result")
		l.fail(MsgTranslationUnknown)
	}
}

func (l *Loop) displayLang() string {
	if l.recognizer == nil {
		return l.recognized.LangCode
	}
	return l.recognizer.DisplayLangCode(l.recognized.LangCode)
}

// baseDisplay carries the recognized text with its boxes in screen space.
func (l *Loop) baseDisplay(kind session.DisplayKind) session.Display {
	boxes := make([]geometry.Rect, 0, len(l.recognized.Boxes))
	sameSize := l.bitmapBox.Width() == l.selection.Width() && l.bitmapBox.Height() == l.selection.Height()
	for _, b := range l.recognized.Boxes {
		if sameSize {
			boxes = append(boxes, geometry.ToScreen(b.Offset(-l.bitmapBox.Left, -l.bitmapBox.Top), l.selection))
		} else {
			boxes = append(boxes, geometry.Scale(b, l.bitmapBox, l.selection))
		}
	}
	return session.Display{
		Kind:      kind,
		OCRText:   l.recognized.Text,
		LangCode:  l.displayLang(),
		Selection: l.selection,
		Boxes:     boxes,
	}
}

func (l *Loop) display(d session.Display) {
	if err := l.machine.Transition(session.Displaying{}); err != nil {
		return
	}
	l.opts.Surface.ShowResult(d)
	if l.opts.Clipboard != nil && l.opts.Settings.Settings().AutoCopyResult {
		if err := l.opts.Clipboard.Write(d.Text()); err != nil {
			log.Printf("eventloop: auto copy failed: %v", err)
		}
	}
}

// fail shows message and returns to Idle. Failed is never left standing.
func (l *Loop) fail(message string) {
	log.Printf("eventloop: failed: %s", message)
	if err := l.machine.Transition(session.Failed{Message: message}); err != nil {
		l.backToIdle()
		return
	}
	l.opts.Surface.HideResult()
	l.opts.Surface.ShowError(message)
	l.backToIdle()
}
