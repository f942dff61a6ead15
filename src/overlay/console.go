package overlay

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"onscreen-translator/src/dialog"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/session"
)

// Console is a Surface that writes results as text. Parent is the bound
// reported to the loop when selection starts.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	Parent  geometry.Rect
	Verbose bool

	mu sync.Mutex
}

func (c *Console) errOut() io.Writer {
	if c.Err != nil {
		return c.Err
	}
	return io.Discard
}

func (c *Console) ShowDialog(d dialog.Dialog) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut(), "%s: %s\n", d.Title, d.Message)
	return func() {}
}

func (c *Console) AttachSelection() geometry.Rect { return c.Parent }
func (c *Console) ShowCircled(geometry.Rect)      {}
func (c *Console) DetachSelection()               {}
func (c *Console) HideResult()                    {}

func (c *Console) ShowProgress(stage session.Kind) {
	if !c.Verbose {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut(), "%s...\n", stage)
}

func (c *Console) ShowResult(d session.Display) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if !d.HideOCRText || d.Kind != session.DisplayTranslated {
		b.WriteString(d.OCRText)
		b.WriteString("\n")
	}
	switch d.Kind {
	case session.DisplayTranslated:
		if !d.HideOCRText {
			b.WriteString("---\n")
		}
		b.WriteString(d.TranslatedText)
		b.WriteString("\n")
	case session.DisplayUnsupportedLang, session.DisplayOCROnly:
		if d.Hint != "" {
			fmt.Fprintf(c.errOut(), "(%s)\n", d.Hint)
		}
	}
	fmt.Fprint(c.Out, b.String())
}

func (c *Console) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut(), "error: %s\n", message)
}
