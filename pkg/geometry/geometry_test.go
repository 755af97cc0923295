package geometry

import "testing"

func TestRect_ContainsHalfOpenEdges(t *testing.T) {
	r := RectFromLTWH(10, 10, 100, 50)

	if !r.Contains(Offset{X: 10, Y: 10}) {
		t.Error("left/top corner should be inside")
	}
	if r.Contains(Offset{X: 110, Y: 30}) {
		t.Error("right edge should be outside")
	}
	if r.Contains(Offset{X: 50, Y: 60}) {
		t.Error("bottom edge should be outside")
	}

	// Adjacent rectangles never both claim the shared edge.
	left := RectFromLTWH(0, 0, 50, 50)
	right := RectFromLTWH(50, 0, 50, 50)
	p := Offset{X: 50, Y: 25}
	if left.Contains(p) {
		t.Error("shared edge claimed by the left rect")
	}
	if !right.Contains(p) {
		t.Error("shared edge not claimed by the right rect")
	}
}

func TestRect_IsEmpty(t *testing.T) {
	if RectFromLTWH(0, 0, 10, 10).IsEmpty() {
		t.Error("non-degenerate rect reported empty")
	}
	if !(Rect{}).IsEmpty() {
		t.Error("zero rect not empty")
	}
	if !RectFromLTWH(5, 5, 0, 10).IsEmpty() {
		t.Error("zero-width rect not empty")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %g", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3,0,10) = %g", got)
	}
	if got := Clamp(15, 0, 10); got != 10 {
		t.Errorf("Clamp(15,0,10) = %g", got)
	}
}
