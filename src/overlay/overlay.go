package overlay

import (
	"onscreen-translator/src/dialog"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/session"
)

// Surface is the display side of a session. Methods must not block. Most are
// called from the event loop goroutine; ShowDialog may also be called from
// background flows. User input flows back through the loop's event methods.
type Surface interface {
	dialog.Prompter

	// AttachSelection shows the area-selection overlay and returns the
	// parent bound selections are drawn in.
	AttachSelection() geometry.Rect
	// ShowCircled draws the finalized selection and enables the capture trigger.
	ShowCircled(selection geometry.Rect)
	DetachSelection()

	// ShowProgress reports that a pipeline stage is running.
	ShowProgress(stage session.Kind)
	ShowResult(d session.Display)
	HideResult()
	ShowError(message string)
}
