package simulation

import "math"

// cosineEpsilon guards the point-through-surface division against a
// near-parallel travel vector, per spec.md §7 NumericDegeneracy: treated as
// "no collision", never surfaced as an error.
const cosineEpsilon = 1e-9

// ResolvePointThroughSurface implements spec.md §4.2's point-through-surface
// resolution. p is a point that has just traveled along v (so its previous
// position was p-v). It returns the displacement that undoes the
// intersection with surf, or ok=false if there was no real collision.
func ResolvePointThroughSurface(p Point, v Vector, surf Surface) (adjustment Vector, ok bool) {
	if v.LengthSquared() == 0 {
		return Vector{}, false
	}

	ap := surf.A.Sub(p)
	n := surf.Normal()
	l := ap.Dot(n)
	if l < 0 {
		// p is on the normal side; no intersection is possible.
		return Vector{}, false
	}

	u := v.Scale(-1.0 / v.Length())
	cosO := n.Dot(u)
	if math.Abs(cosO) < cosineEpsilon {
		return Vector{}, false
	}

	dist := l / cosO
	adjustment = u.Scale(dist)
	intersection := p.Add(adjustment)
	prev := p.Add(v.Scale(-1))

	if !between(intersection, surf.A, surf.B) {
		return Vector{}, false
	}
	if !between(intersection, prev, p) {
		return Vector{}, false
	}
	return adjustment, true
}

// between reports whether test lies strictly between e1 and e2 on the x
// axis, or strictly between them on the y axis. The OR is deliberate (spec.md
// §4.2 step 5, Design Notes §9): an axis-aligned segment has negligible
// range on one axis, and the other axis rescues the test.
func between(test, e1, e2 Point) bool {
	xSeparates := (test.X > e1.X && test.X < e2.X) || (test.X < e1.X && test.X > e2.X)
	ySeparates := (test.Y > e1.Y && test.Y < e2.Y) || (test.Y < e1.Y && test.Y > e2.Y)
	return xSeparates || ySeparates
}

// dampingCoefficient is the fraction of velocity lost on a perpendicular
// collision (spec.md §6 Fixed constants).
const dampingCoefficient = 0.15

// ReflectBallOffSurface applies spec.md §4.2's ball-surface response: the
// component of velocity along n is reflected, damped by how square-on the
// hit was, then the ball is translated out of the surface and advanced by
// its (now reflected) velocity for dt.
func ReflectBallOffSurface(b *Ball, n Vector, resolution Vector, dt float64) {
	var vHat Vector
	if b.Velocity.LengthSquared() > 0 {
		vHat = b.Velocity.Normalized()
	}

	reflected := b.Velocity.Sub(n.Scale(2 * b.Velocity.Dot(n)))
	damp := 1 - dampingCoefficient*math.Abs(n.Dot(vHat))
	b.Velocity = reflected.Scale(damp)

	b.Pos = b.Pos.Add(resolution)
	b.Pos = b.Pos.Add(b.Velocity.Scale(dt))
}

// ResolveBallBall applies spec.md §4.2's pairwise ball-ball collision: when
// two balls overlap, the velocity components along the line of centers are
// swapped (equal-mass elastic) and damped by the same coefficient used for
// surface hits. Reports whether a collision was resolved.
func ResolveBallBall(a, b *Ball) bool {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Length()
	minDist := a.R + b.R
	if dist == 0 || dist >= minDist {
		return false
	}

	axis := delta.Scale(1 / dist)
	va := a.Velocity.Dot(axis)
	vb := b.Velocity.Dot(axis)
	damp := 1 - dampingCoefficient

	aTangential := a.Velocity.Sub(axis.Scale(va))
	bTangential := b.Velocity.Sub(axis.Scale(vb))

	a.Velocity = aTangential.Add(axis.Scale(vb * damp))
	b.Velocity = bTangential.Add(axis.Scale(va * damp))
	return true
}
