package simulation

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector{X: 1, Y: 2}
	b := Vector{X: 3, Y: -1}

	if got := a.Add(b); got != (Vector{X: 4, Y: 1}) {
		t.Errorf("Add = %v, want {4 1}", got)
	}
	if got := a.Sub(b); got != (Vector{X: -2, Y: 3}) {
		t.Errorf("Sub = %v, want {-2 3}", got)
	}
	if got := a.Scale(2); got != (Vector{X: 2, Y: 4}) {
		t.Errorf("Scale = %v, want {2 4}", got)
	}
	if got := a.Dot(b); !almostEqual(got, 1) {
		t.Errorf("Dot = %v, want 1", got)
	}
	if got := (Vector{X: 3, Y: 4}).Length(); !almostEqual(got, 5) {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestVectorNormalized(t *testing.T) {
	v := Vector{X: 3, Y: 4}.Normalized()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", v.Length())
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 1, Y: 1}
	v := Vector{X: 0.5, Y: -0.5}
	if got := p.Add(v); got != (Point{X: 1.5, Y: 0.5}) {
		t.Errorf("Add = %v, want {1.5 0.5}", got)
	}
	q := Point{X: 2, Y: 2}
	if got := q.Sub(p); got != (Vector{X: 1, Y: 1}) {
		t.Errorf("Sub = %v, want {1 1}", got)
	}
}

func TestSurfaceNormal(t *testing.T) {
	// a=(0,0) b=(1,0): d=(1,0), normal should be (0,1) — "points up".
	s := Surface{A: Point{X: 0, Y: 0}, B: Point{X: 1, Y: 0}}
	n := s.Normal()
	if !almostEqual(n.X, 0) || !almostEqual(n.Y, 1) {
		t.Errorf("Normal = %v, want (0,1)", n)
	}
}
