// Package geom holds the small vector and random helpers shared by the
// simulation packages.
package geom

import "math"

// Epsilon is the length below which a vector has no direction.
const Epsilon = 0.0001

// Vec is a 2D vector in pixel space.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float64) Vec {
	return Vec{X: math.Cos(a), Y: math.Sin(a)}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// IsZero reports whether both components are exactly zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector of v.
// ok is false when v is shorter than Epsilon; callers skip the action then.
func (v Vec) Normalize() (unit Vec, ok bool) {
	l := v.Len()
	if l < Epsilon {
		return Vec{}, false
	}
	return Vec{X: v.X / l, Y: v.Y / l}, true
}

// Rotate rotates v by a radians.
func (v Vec) Rotate(a float64) Vec {
	c, s := math.Cos(a), math.Sin(a)
	return Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Perp returns v rotated by +90 degrees scaled by sign.
func (v Vec) Perp(sign float64) Vec {
	return Vec{X: -v.Y * sign, Y: v.X * sign}
}

// Angle returns the heading of v in radians.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// ClampInt limits x to [lo, hi].
func ClampInt(x, lo, hi int) int {
	return max(lo, min(hi, x))
}

// Spread returns the angular offset of shot i among count shots fanned
// across arc radians, centred on zero. A single shot gets no offset.
func Spread(i, count int, arc float64) float64 {
	if count <= 1 {
		return 0
	}
	return (float64(i)/float64(count-1) - 0.5) * arc
}
