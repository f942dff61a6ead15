// Package geometry computes and clamps the selection rectangle drawn over the screen.
package geometry

import "fmt"

// DefaultMinCropSize is the smallest width/height a selection may have.
const DefaultMinCropSize = 32

// Point is a screen position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an edge-based rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// EdgeDeltas are per-edge offsets applied during a resize drag.
type EdgeDeltas struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Contains reports whether inner lies fully inside r.
func (r Rect) Contains(inner Rect) bool {
	return inner.Left >= r.Left && inner.Top >= r.Top &&
		inner.Right <= r.Right && inner.Bottom <= r.Bottom
}

// Offset returns r moved by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d - %d, %d)", r.Left, r.Top, r.Right, r.Bottom)
}

// ComputeBox normalizes two drag corners into a rectangle.
func ComputeBox(start, end Point) Rect {
	return Rect{
		Left:   min(start.X, end.X),
		Top:    min(start.Y, end.Y),
		Right:  max(start.X, end.X),
		Bottom: max(start.Y, end.Y),
	}
}

// ClampPoint moves p onto parent when it lies outside it.
func ClampPoint(p Point, parent Rect) Point {
	return Point{X: clamp(p.X, parent.Left, parent.Right), Y: clamp(p.Y, parent.Top, parent.Bottom)}
}

// Degenerate reports whether parent cannot hold a minSize square, in which case
// FixSize cannot satisfy its post-condition and the selection should be ignored.
func Degenerate(parent Rect, minSize int) bool {
	return parent.Width() < minSize || parent.Height() < minSize
}

// FixSize grows r to at least minSize on each axis, growing right/bottom first and
// shifting back inside parent when the growth overflows it.
func FixSize(r Rect, parent Rect, minSize int) Rect {
	if w := r.Width(); w < minSize {
		r.Right += minSize - w
		if r.Right > parent.Right {
			move := r.Right - parent.Right
			r.Right -= move
			r.Left -= move
		}
	}
	if h := r.Height(); h < minSize {
		r.Bottom += minSize - h
		if r.Bottom > parent.Bottom {
			move := r.Bottom - parent.Bottom
			r.Bottom -= move
			r.Top -= move
		}
	}
	return r
}

// Resize applies d to base, clamps every edge to parent and keeps the box at least
// one pixel wide and tall before enforcing minSize.
func Resize(base Rect, d EdgeDeltas, parent Rect, minSize int) Rect {
	var r Rect
	r.Left = clamp(base.Left+d.Left, parent.Left, parent.Right-1)
	r.Right = min(max(r.Left+1, base.Right+d.Right), parent.Right)
	r.Top = clamp(base.Top+d.Top, parent.Top, parent.Bottom-1)
	r.Bottom = min(max(r.Top+1, base.Bottom+d.Bottom), parent.Bottom)
	return FixSize(r, parent, minSize)
}

// Clip intersects r with parent. Used for rectangles restored from preferences,
// which may predate a change of screen size.
func Clip(r Rect, parent Rect) Rect {
	out := Rect{
		Left:   max(r.Left, parent.Left),
		Top:    max(r.Top, parent.Top),
		Right:  min(r.Right, parent.Right),
		Bottom: min(r.Bottom, parent.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// ToScreen converts a box in cropped-bitmap coordinates into screen coordinates.
func ToScreen(box Rect, selection Rect) Rect {
	return box.Offset(selection.Left, selection.Top)
}

// Scale maps r from the coordinate space of from onto the space of to.
func Scale(r Rect, from, to Rect) Rect {
	if from.Empty() {
		return r
	}
	sx := float64(to.Width()) / float64(from.Width())
	sy := float64(to.Height()) / float64(from.Height())
	return Rect{
		Left:   to.Left + int(float64(r.Left-from.Left)*sx),
		Top:    to.Top + int(float64(r.Top-from.Top)*sy),
		Right:  to.Left + int(float64(r.Right-from.Left)*sx+0.5),
		Bottom: to.Top + int(float64(r.Bottom-from.Top)*sy+0.5),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
