package simulation

import "testing"

func TestNoopChamberLeavesBallsUnchanged(t *testing.T) {
	balls := []Ball{{Pos: Point{X: 0.5, Y: 0.3}, R: 0.025, Velocity: Vector{X: 1, Y: 1}}}
	want := balls[0]

	var c NoopChamber
	c.Init(1)
	c.Step(balls, testDt)

	if balls[0] != want {
		t.Errorf("NoopChamber mutated a ball: got %+v, want %+v", balls[0], want)
	}
}

func TestGravityWellChamberPullsTowardCenter(t *testing.T) {
	well := &GravityWellChamber{Center: Point{X: 0.5, Y: 0.3}, Strength: 1, MinRadius: 0.05}
	balls := []Ball{{Pos: Point{X: 0.1, Y: 0.3}, R: 0.025}}
	well.Init(1)
	well.Step(balls, testDt)

	if balls[0].Velocity.X <= 0 {
		t.Errorf("ball left of the well should be pulled right, got velocity.x=%v", balls[0].Velocity.X)
	}
}

func TestGravityWellChamberSingularityGuard(t *testing.T) {
	well := &GravityWellChamber{Center: Point{X: 0.5, Y: 0.3}, Strength: 1}
	balls := []Ball{{Pos: Point{X: 0.5, Y: 0.3}}}
	well.Init(1)
	// Ball sits exactly on the well; must not divide by zero or produce NaN.
	well.Step(balls, testDt)
	if invalid(balls[0]) {
		t.Errorf("well produced a non-finite ball state: %+v", balls[0])
	}
}
