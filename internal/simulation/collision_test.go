package simulation

import "testing"

// S5: two balls approaching head-on along the x axis.
func TestResolveBallBallHeadOn(t *testing.T) {
	a := &Ball{Pos: Point{X: 0.4, Y: 0.3}, R: 0.025, Velocity: Vector{X: 1, Y: 0}}
	b := &Ball{Pos: Point{X: 0.44, Y: 0.3}, R: 0.025, Velocity: Vector{X: -1, Y: 0}}

	if ok := ResolveBallBall(a, b); !ok {
		t.Fatalf("expected a collision (centers 0.04 apart, sum of radii 0.05)")
	}

	if !almostEqual(a.Velocity.X, -0.85) || !almostEqual(a.Velocity.Y, 0) {
		t.Errorf("a.Velocity = %v, want (-0.85, 0)", a.Velocity)
	}
	if !almostEqual(b.Velocity.X, 0.85) || !almostEqual(b.Velocity.Y, 0) {
		t.Errorf("b.Velocity = %v, want (0.85, 0)", b.Velocity)
	}
}

func TestResolveBallBallNoOverlap(t *testing.T) {
	a := &Ball{Pos: Point{X: 0, Y: 0}, R: 0.025, Velocity: Vector{X: 1, Y: 0}}
	b := &Ball{Pos: Point{X: 1, Y: 1}, R: 0.025, Velocity: Vector{X: -1, Y: 0}}
	if ok := ResolveBallBall(a, b); ok {
		t.Errorf("balls far apart should not collide")
	}
}

func TestResolveBallBallCoincidentCenters(t *testing.T) {
	a := &Ball{Pos: Point{X: 0.5, Y: 0.5}, R: 0.025, Velocity: Vector{X: 1, Y: 0}}
	b := &Ball{Pos: Point{X: 0.5, Y: 0.5}, R: 0.025, Velocity: Vector{X: -1, Y: 0}}
	if ok := ResolveBallBall(a, b); ok {
		t.Errorf("degenerate zero-distance overlap must be treated as no collision")
	}
}

// A ball traveling straight down crosses a horizontal surface mid-step:
// the resolution should push it back above the surface and reflect+damp
// its velocity.
func TestResolvePointThroughSurfaceAndReflect(t *testing.T) {
	surf := Surface{A: Point{X: 0, Y: 0.2}, B: Point{X: 1, Y: 0.2}}
	b := Ball{Pos: Point{X: 0.5, Y: 0.1995}, R: 0.025, Velocity: Vector{X: 0, Y: -1}}

	adjustment, ok := ResolvePointThroughSurface(b.Pos, b.Velocity.Scale(testDt), surf)
	if !ok {
		t.Fatalf("expected a collision: ball crossed the surface this step")
	}

	n := surf.Normal()
	ReflectBallOffSurface(&b, n, adjustment, testDt)

	if b.Velocity.Y <= 0 {
		t.Errorf("velocity.y = %v, want positive (reflected upward)", b.Velocity.Y)
	}
	wantSpeed := 1 * (1 - dampingCoefficient)
	if !almostEqual(b.Velocity.Length(), wantSpeed) {
		t.Errorf("|velocity| after reflect = %v, want %v", b.Velocity.Length(), wantSpeed)
	}
}

// Invariant 6: a point already on the normal side of a surface (l < 0)
// reports no collision.
func TestResolvePointThroughSurfaceOnNormalSide(t *testing.T) {
	surf := Surface{A: Point{X: 0, Y: 0.2}, B: Point{X: 1, Y: 0.2}}
	p := Point{X: 0.5, Y: 0.3} // above the surface, on the normal (0,1) side
	v := Vector{X: 0, Y: -0.5}

	if _, ok := ResolvePointThroughSurface(p, v, surf); ok {
		t.Errorf("point already on the normal side must report no collision")
	}
}

func TestResolvePointThroughSurfaceZeroVelocity(t *testing.T) {
	surf := Surface{A: Point{X: 0, Y: 0.2}, B: Point{X: 1, Y: 0.2}}
	if _, ok := ResolvePointThroughSurface(Point{X: 0.5, Y: 0.1}, Vector{}, surf); ok {
		t.Errorf("zero-length travel vector must report no collision (NumericDegeneracy)")
	}
}

func TestBetween(t *testing.T) {
	e1 := Point{X: 0, Y: 0}
	e2 := Point{X: 1, Y: 0}
	if !between(Point{X: 0.5, Y: 0}, e1, e2) {
		t.Errorf("midpoint should separate endpoints on x")
	}
	if between(Point{X: 1.5, Y: 0}, e1, e2) {
		t.Errorf("point outside the segment should not separate")
	}
}
