// Package dialog describes the modal prompts providers and the session loop
// raise on the display surface.
package dialog

type Kind int

const (
	ConfirmOnly Kind = iota
	ConfirmCancel
	CancelOnly
)

// Dialog is a single prompt. OnOK and OnCancel are optional and run on the
// surface's UI goroutine, so they must not block.
type Dialog struct {
	Title    string
	Message  string
	Kind     Kind
	OnOK     func()
	OnCancel func()
}

// Prompter shows dialogs. The returned function dismisses the dialog and is
// safe to call more than once.
type Prompter interface {
	ShowDialog(d Dialog) (dismiss func())
}

// Discard is a Prompter that shows nothing, used by headless runs.
type Discard struct{}

func (Discard) ShowDialog(Dialog) func() { return func() {} }
