package gui

import (
	"fyne.io/fyne/v2"

	"onscreen-translator/src/geometry"
)

// scaler converts between canvas units and the parent's physical pixels.
type scaler struct {
	parent geometry.Rect
	size   fyne.Size
}

func (s scaler) ratio() (float32, float32) {
	if s.size.Width <= 0 || s.size.Height <= 0 {
		return 1, 1
	}
	return float32(s.parent.Width()) / s.size.Width, float32(s.parent.Height()) / s.size.Height
}

func (s scaler) toParent(p fyne.Position) geometry.Point {
	rx, ry := s.ratio()
	return geometry.Point{
		X: s.parent.Left + int(p.X*rx+0.5),
		Y: s.parent.Top + int(p.Y*ry+0.5),
	}
}

func (s scaler) toCanvasPoint(p geometry.Point) fyne.Position {
	rx, ry := s.ratio()
	return fyne.NewPos(float32(p.X-s.parent.Left)/rx, float32(p.Y-s.parent.Top)/ry)
}

func (s scaler) toCanvas(r geometry.Rect) (fyne.Position, fyne.Size) {
	rx, ry := s.ratio()
	return s.toCanvasPoint(geometry.Point{X: r.Left, Y: r.Top}),
		fyne.NewSize(float32(r.Width())/rx, float32(r.Height())/ry)
}

const cardGap = 8

// cardPosition places a card of size below the selection, above it when
// there is no room below, and keeps it on the canvas.
func cardPosition(selPos fyne.Position, selSize, size, canvas fyne.Size) fyne.Position {
	p := fyne.NewPos(selPos.X, selPos.Y+selSize.Height+cardGap)
	if p.Y+size.Height > canvas.Height {
		if above := selPos.Y - cardGap - size.Height; above >= 0 {
			p.Y = above
		}
	}
	return clampPosition(p, size, canvas)
}

func clampPosition(p fyne.Position, size, canvas fyne.Size) fyne.Position {
	p.X = min(max(p.X, 0), max(canvas.Width-size.Width, 0))
	p.Y = min(max(p.Y, 0), max(canvas.Height-size.Height, 0))
	return p
}

type edgeMask uint8

const (
	edgeLeft edgeMask = 1 << iota
	edgeTop
	edgeRight
	edgeBottom
)

// grabSlop is how close, in parent pixels, a drag must start to an edge to resize it.
const grabSlop = 12

// grabEdges returns the edges of sel within slop of p, or zero when p is not
// on the border. On boxes narrower than two slops the right/bottom edge wins.
func grabEdges(sel geometry.Rect, p geometry.Point, slop int) edgeMask {
	if sel.Empty() {
		return 0
	}
	if p.X < sel.Left-slop || p.X > sel.Right+slop || p.Y < sel.Top-slop || p.Y > sel.Bottom+slop {
		return 0
	}
	var m edgeMask
	if abs(p.X-sel.Right) <= slop {
		m |= edgeRight
	} else if abs(p.X-sel.Left) <= slop {
		m |= edgeLeft
	}
	if abs(p.Y-sel.Bottom) <= slop {
		m |= edgeBottom
	} else if abs(p.Y-sel.Top) <= slop {
		m |= edgeTop
	}
	return m
}

func (m edgeMask) deltas(dx, dy int) geometry.EdgeDeltas {
	var d geometry.EdgeDeltas
	if m&edgeLeft != 0 {
		d.Left = dx
	}
	if m&edgeRight != 0 {
		d.Right = dx
	}
	if m&edgeTop != 0 {
		d.Top = dy
	}
	if m&edgeBottom != 0 {
		d.Bottom = dy
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
