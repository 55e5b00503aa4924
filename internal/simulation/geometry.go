package simulation

import "math"

// Point is a position in a chamber's local coordinate frame.
type Point struct {
	X, Y float64
}

// Vector is a 2-D displacement or velocity. Point and Vector are kept as
// distinct types so that point-minus-point reads as a Vector and
// point-plus-vector reads as a Point at the call site.
type Vector struct {
	X, Y float64
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Vector {
	return Vector{X: p.X - other.X, Y: p.Y - other.Y}
}

// Add translates p by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Add returns the sum of two vectors.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and other.
func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

// LengthSquared returns |v|^2, avoiding the sqrt when only comparison is needed.
func (v Vector) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns |v|.
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalized returns v scaled to unit length. Callers must not call this on
// a zero vector; the result is undefined (division by zero) in that case,
// matching spec.md's NumericDegeneracy contract of treating the zero-vector
// case as the caller's responsibility to guard.
func (v Vector) Normalized() Vector {
	return v.Scale(1.0 / v.Length())
}

// Surface is an oriented segment (A, B). Its normal points "up" when A is
// left of B; callers are responsible for supplying surfaces with that
// orientation (see DESIGN.md Open Question decision).
type Surface struct {
	A, B Point
}

// Normal returns the unit vector perpendicular to B-A, rotated 90 degrees
// counterclockwise. Undefined (divides by zero) if A == B.
func (s Surface) Normal() Vector {
	d := s.B.Sub(s.A).Normalized()
	return Vector{X: -d.Y, Y: d.X}
}
