package simulation

import "math"

// Ball is a mutable physical entity (spec.md §3). Its owning chamber is
// tracked separately as a parallel BallOwner index, not as a field here,
// matching the spec's data model.
type Ball struct {
	Pos      Point
	R        float64
	Velocity Vector
}

// Integrate runs one tick of the fixed-step integrator (spec.md §4.3): apply
// gravity, clamp speed, then advance position. Order matters — it runs
// before chamber delegation, wrap, and collisions.
func Integrate(b *Ball, dt, gravity, maxSpeed float64) {
	b.Velocity.Y += gravity * dt

	if b.Velocity.LengthSquared() > maxSpeed*maxSpeed {
		b.Velocity = b.Velocity.Scale(maxSpeed / b.Velocity.Length())
	}

	b.Pos = b.Pos.Add(b.Velocity.Scale(dt))
}

// clampSpeed mirrors the clamp step of Integrate without re-running
// gravity. runChamberStep applies it to a chamber program's returned
// velocities, so an over-speed ball handed back by chamber code can't
// violate the MAX_SPEED invariant after the panic/invariant checks pass.
func clampSpeed(v Vector, maxSpeed float64) Vector {
	if v.LengthSquared() <= maxSpeed*maxSpeed {
		return v
	}
	length := v.Length()
	if length == 0 || math.IsNaN(length) {
		return Vector{}
	}
	return v.Scale(maxSpeed / length)
}
