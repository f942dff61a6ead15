package geometry

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func TestComputeBoxNormalizesCorners(t *testing.T) {
	tests := []struct {
		name       string
		start, end Point
		want       Rect
	}{
		{"top-left to bottom-right", Point{0, 0}, Point{100, 100}, Rect{0, 0, 100, 100}},
		{"bottom-right to top-left", Point{100, 80}, Point{10, 20}, Rect{10, 20, 100, 80}},
		{"mixed", Point{50, 10}, Point{20, 70}, Rect{20, 10, 50, 70}},
		{"single point", Point{5, 5}, Point{5, 5}, Rect{5, 5, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBox(tt.start, tt.end); got != tt.want {
				t.Fatalf("ComputeBox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixSizeExpandsTinySelection(t *testing.T) {
	parent := Rect{0, 0, 500, 500}
	got := FixSize(ComputeBox(Point{0, 0}, Point{10, 10}), parent, 32)
	want := Rect{0, 0, 32, 32}
	if got != want {
		t.Fatalf("FixSize() = %v, want %v", got, want)
	}
}

func TestFixSizeShiftsBackInsideParent(t *testing.T) {
	parent := Rect{0, 0, 500, 500}
	got := FixSize(Rect{490, 495, 498, 500}, parent, 32)
	want := Rect{468, 468, 500, 500}
	if got != want {
		t.Fatalf("FixSize() = %v, want %v", got, want)
	}
}

func TestFixSizeKeepsLargeSelection(t *testing.T) {
	parent := Rect{0, 0, 500, 500}
	r := Rect{10, 10, 200, 300}
	if got := FixSize(r, parent, 32); got != r {
		t.Fatalf("FixSize() changed a valid rect: %v", got)
	}
}

func TestDegenerate(t *testing.T) {
	if !Degenerate(Rect{0, 0, 20, 500}, 32) {
		t.Fatal("expected narrow parent to be degenerate")
	}
	if Degenerate(Rect{0, 0, 32, 32}, 32) {
		t.Fatal("parent exactly minSize should not be degenerate")
	}
}

func TestResizeClampsToParent(t *testing.T) {
	parent := Rect{0, 0, 500, 500}
	base := Rect{100, 100, 200, 200}

	got := Resize(base, EdgeDeltas{Left: -300, Top: -300, Right: 600, Bottom: 600}, parent, 32)
	if got != parent {
		t.Fatalf("Resize() = %v, want %v", got, parent)
	}

	got = Resize(base, EdgeDeltas{Left: 150, Right: -150}, parent, 32)
	if got.Width() < 32 || !parent.Contains(got) {
		t.Fatalf("Resize() collapsed box badly: %v", got)
	}
}

type dragCase struct {
	parent     Rect
	start, end Point
}

func (dragCase) Generate(r *rand.Rand, _ int) reflect.Value {
	minSize := 32
	left, top := r.Intn(200)-100, r.Intn(200)-100
	w, h := minSize+r.Intn(800), minSize+r.Intn(800)
	parent := Rect{left, top, left + w, top + h}
	pt := func() Point {
		return Point{X: parent.Left + r.Intn(w+1), Y: parent.Top + r.Intn(h+1)}
	}
	return reflect.ValueOf(dragCase{parent: parent, start: pt(), end: pt()})
}

func TestFixSizeProperty(t *testing.T) {
	const minSize = 32
	prop := func(c dragCase) bool {
		got := FixSize(ComputeBox(c.start, c.end), c.parent, minSize)
		return c.parent.Contains(got) && got.Width() >= minSize && got.Height() >= minSize
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatal(err)
	}
}

type resizeCase struct {
	parent Rect
	base   Rect
	deltas EdgeDeltas
}

func (resizeCase) Generate(r *rand.Rand, _ int) reflect.Value {
	minSize := 32
	w, h := minSize+r.Intn(600), minSize+r.Intn(600)
	parent := Rect{0, 0, w, h}
	start := Point{r.Intn(w + 1), r.Intn(h + 1)}
	end := Point{r.Intn(w + 1), r.Intn(h + 1)}
	base := FixSize(ComputeBox(start, end), parent, minSize)
	d := func() int { return r.Intn(2*w+2*h) - (w + h) }
	return reflect.ValueOf(resizeCase{
		parent: parent,
		base:   base,
		deltas: EdgeDeltas{Left: d(), Top: d(), Right: d(), Bottom: d()},
	})
}

func TestResizeProperty(t *testing.T) {
	const minSize = 32
	prop := func(c resizeCase) bool {
		got := Resize(c.base, c.deltas, c.parent, minSize)
		return got.Right > got.Left && got.Bottom > got.Top && c.parent.Contains(got)
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatal(err)
	}
}

func TestToScreenAndScale(t *testing.T) {
	box := Rect{2, 3, 12, 13}
	sel := Rect{100, 200, 300, 400}
	if got := ToScreen(box, sel); got != (Rect{102, 203, 112, 213}) {
		t.Fatalf("ToScreen() = %v", got)
	}

	from := Rect{0, 0, 100, 100}
	to := Rect{0, 0, 200, 200}
	if got := Scale(Rect{10, 10, 50, 50}, from, to); got != (Rect{20, 20, 100, 100}) {
		t.Fatalf("Scale() = %v", got)
	}
}

func TestClip(t *testing.T) {
	parent := Rect{0, 0, 100, 100}
	if got := Clip(Rect{-10, 50, 50, 150}, parent); got != (Rect{0, 50, 50, 100}) {
		t.Fatalf("Clip() = %v", got)
	}
	if got := Clip(Rect{200, 200, 300, 300}, parent); !got.Empty() {
		t.Fatalf("Clip() of disjoint rect = %v, want empty", got)
	}
}

func TestClampPoint(t *testing.T) {
	parent := Rect{0, 0, 500, 500}
	if got := ClampPoint(Point{X: -5, Y: 600}, parent); got != (Point{X: 0, Y: 500}) {
		t.Fatalf("ClampPoint() = %v", got)
	}
	if got := ClampPoint(Point{X: 10, Y: 20}, parent); got != (Point{X: 10, Y: 20}) {
		t.Fatalf("ClampPoint() moved an inside point: %v", got)
	}
}
