package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"onscreen-translator/src/geometry"
)

var (
	shadeColor   = color.NRGBA{A: 0x50}
	boxFillColor = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0x30}
	boxLineColor = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
)

// selectionArea covers the overlay and turns drags into selections. A drag
// that starts on the border of the circled box resizes it instead.
type selectionArea struct {
	widget.BaseWidget
	parent geometry.Rect
	s      *Surface

	shade   *canvas.Rectangle
	box     *canvas.Rectangle
	capture *widget.Button

	circled  geometry.Rect
	dragging bool
	start    fyne.Position
	last     fyne.Position
	resizing edgeMask
}

func newSelectionArea(parent geometry.Rect, s *Surface) *selectionArea {
	a := &selectionArea{parent: parent, s: s}
	a.shade = canvas.NewRectangle(shadeColor)
	a.box = canvas.NewRectangle(boxFillColor)
	a.box.StrokeColor = boxLineColor
	a.box.StrokeWidth = 2
	a.box.Hide()
	a.capture = widget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), func() {
		s.controller().StartCapture("")
	})
	a.capture.Importance = widget.HighImportance
	a.capture.Hide()
	a.ExtendBaseWidget(a)
	return a
}

func (a *selectionArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(a.shade, container.NewWithoutLayout(a.box, a.capture)))
}

func (a *selectionArea) scaler() scaler {
	return scaler{parent: a.parent, size: a.Size()}
}

func (a *selectionArea) Dragged(ev *fyne.DragEvent) {
	sc := a.scaler()
	if !a.dragging {
		a.dragging = true
		a.start = ev.Position.Subtract(ev.Dragged)
		a.resizing = grabEdges(a.circled, sc.toParent(a.start), grabSlop)
		a.capture.Hide()
	}
	a.last = ev.Position

	from, to := sc.toParent(a.start), sc.toParent(a.last)
	if a.resizing != 0 {
		a.drawBox(geometry.Resize(a.circled, a.resizing.deltas(to.X-from.X, to.Y-from.Y), a.parent, 1))
		return
	}
	a.drawBox(geometry.ComputeBox(from, to))
}

func (a *selectionArea) DragEnd() {
	if !a.dragging {
		return
	}
	a.dragging = false
	sc := a.scaler()
	from, to := sc.toParent(a.start), sc.toParent(a.last)
	if a.resizing != 0 {
		a.s.controller().ResizeSelection(a.resizing.deltas(to.X-from.X, to.Y-from.Y))
	} else {
		a.s.controller().DragFinished(a.parent, from, to)
	}
	a.resizing = 0
}

// TappedSecondary cancels the selection on right click.
func (a *selectionArea) TappedSecondary(*fyne.PointEvent) {
	a.s.controller().CancelCircling()
}

func (a *selectionArea) setCircled(sel geometry.Rect) {
	a.circled = sel
	a.drawBox(sel)
	pos, size := a.scaler().toCanvas(sel)
	btn := a.capture.MinSize()
	a.capture.Resize(btn)
	a.capture.Move(clampPosition(
		fyne.NewPos(pos.X+size.Width-btn.Width, pos.Y+size.Height+cardGap),
		btn, a.Size()))
	a.capture.Show()
}

func (a *selectionArea) drawBox(r geometry.Rect) {
	pos, size := a.scaler().toCanvas(r)
	a.box.Move(pos)
	a.box.Resize(size)
	a.box.Show()
	a.box.Refresh()
}

func (a *selectionArea) reset() {
	a.circled = geometry.Rect{}
	a.dragging = false
	a.resizing = 0
	a.box.Hide()
	a.capture.Hide()
}
