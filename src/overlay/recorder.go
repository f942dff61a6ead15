package overlay

import (
	"fmt"
	"sync"

	"onscreen-translator/src/dialog"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/session"
)

// Recorder is a Surface that remembers every call. It backs headless
// integrations and tests.
type Recorder struct {
	Parent geometry.Rect

	mu       sync.Mutex
	calls    []string
	dialogs  []dialog.Dialog
	displays []session.Display
	errors   []string
	attached bool
	catalogs int
}

func (r *Recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) ShowDialog(d dialog.Dialog) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("dialog %s", d.Title)
	r.dialogs = append(r.dialogs, d)
	return func() {}
}

func (r *Recorder) AttachSelection() geometry.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("attach")
	r.attached = true
	return r.Parent
}

func (r *Recorder) ShowCircled(sel geometry.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("circled %s", sel)
}

func (r *Recorder) DetachSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("detach")
	r.attached = false
}

func (r *Recorder) ShowProgress(stage session.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("progress %s", stage)
}

func (r *Recorder) ShowResult(d session.Display) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("result %s", d.Kind)
	r.displays = append(r.displays, d)
}

func (r *Recorder) HideResult() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("hide result")
}

func (r *Recorder) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("error %s", message)
	r.errors = append(r.errors, message)
}

func (r *Recorder) RefreshCatalog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log("refresh catalog")
	r.catalogs++
}

func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Recorder) Dialogs() []dialog.Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dialog.Dialog(nil), r.dialogs...)
}

func (r *Recorder) Displays() []session.Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Display(nil), r.displays...)
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func (r *Recorder) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

// CatalogRefreshes counts RefreshCatalog calls.
func (r *Recorder) CatalogRefreshes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalogs
}
