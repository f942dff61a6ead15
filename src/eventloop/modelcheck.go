package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"

	"onscreen-translator/src/dialog"
	"onscreen-translator/src/recognition"
)

// modelReady reports whether the selected recognizer can run for the stored
// language. When a downloadable model is missing it offers the download and
// returns false.
func (l *Loop) modelReady() bool {
	rec := l.selectedRecognizer()
	dl, ok := rec.(recognition.ModelDownloader)
	if !ok {
		return true
	}
	code := l.opts.Prefs.SelectedOCRLang()
	if dl.HasModel(code) {
		return true
	}
	l.offerDownload(dl, rec.Name(), code, nil)
	return false
}

// offerDownload asks before fetching the model for code. then runs after a
// successful download.
func (l *Loop) offerDownload(dl recognition.ModelDownloader, name, code string, then func()) {
	if l.downloading.Load() {
		l.opts.Surface.ShowDialog(dialog.Dialog{
			Title:   "Downloading model",
			Message: fmt.Sprintf("The %s model for %q is still downloading.", name, code),
			Kind:    dialog.ConfirmOnly,
		})
		return
	}
	ctx := l.ctx
	l.opts.Surface.ShowDialog(dialog.Dialog{
		Title:   "Model not downloaded",
		Message: fmt.Sprintf("Recognizing %q with %s needs a model download. Download it now?", code, name),
		Kind:    dialog.ConfirmCancel,
		OnOK:    func() { l.downloadModel(ctx, dl, name, code, then) },
	})
}

// downloadModel fetches one model in the background, showing progress and
// outcome dialogs. Only one download runs at a time.
func (l *Loop) downloadModel(ctx context.Context, dl recognition.ModelDownloader, name, code string, then func()) {
	if !l.downloading.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer l.downloading.Store(false)
		dismiss := l.opts.Surface.ShowDialog(dialog.Dialog{
			Title:    "Downloading model",
			Message:  fmt.Sprintf("Downloading the %s model for %q...", name, code),
			Kind:     dialog.CancelOnly,
			OnCancel: dl.CancelDownload,
		})
		err := dl.DownloadModel(ctx, code)
		dismiss()
		switch {
		case errors.Is(err, context.Canceled):
			log.Printf("eventloop: model download for %q cancelled", code)
		case err != nil:
			log.Printf("eventloop: model download for %q failed: %v", code, err)
			l.opts.Surface.ShowDialog(dialog.Dialog{
				Title:   "Download failed",
				Message: err.Error(),
				Kind:    dialog.ConfirmOnly,
			})
		default:
			log.Printf("eventloop: model for %q downloaded", code)
			l.opts.Surface.ShowDialog(dialog.Dialog{
				Title:   "Model ready",
				Message: fmt.Sprintf("The %s model for %q is ready.", name, code),
				Kind:    dialog.ConfirmOnly,
			})
			l.refreshCatalog()
			if then != nil {
				then()
			}
		}
	}()
}
