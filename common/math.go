package common

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Gravity is the ambient fall acceleration along Y, in units/s².
const Gravity = -9.81

// epsilon below which a horizontal vector is treated as zero.
const epsilon = 1e-6

var (
	Up    = r3.Vec{Y: 1}
	Down  = r3.Vec{Y: -1}
	North = r3.Vec{Z: 1}
	South = r3.Vec{Z: -1}
	East  = r3.Vec{X: 1}
	West  = r3.Vec{X: -1}
)

// Cardinals is the fixed probe order used by edge checks and fallbacks.
var Cardinals = [4]r3.Vec{North, East, South, West}

// Compass8 holds the four cardinals followed by the four normalized diagonals.
var Compass8 = [8]r3.Vec{
	North, East, South, West,
	{X: math.Sqrt2 / 2, Z: math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Z: -math.Sqrt2 / 2},
	{X: -math.Sqrt2 / 2, Z: -math.Sqrt2 / 2},
	{X: -math.Sqrt2 / 2, Z: math.Sqrt2 / 2},
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Horizontal drops the vertical component of v.
func Horizontal(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// HorizontalDistance is the distance between a and b projected on the XZ plane.
func HorizontalDistance(a, b r3.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// FlatDirection returns the unit horizontal direction of v, or false when v has
// no horizontal extent.
func FlatDirection(v r3.Vec) (r3.Vec, bool) {
	h := Horizontal(v)
	n := r3.Norm(h)
	if n < epsilon {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, h), true
}

// Yaw returns the heading of a horizontal direction; 0 faces +Z, positive turns toward +X.
func Yaw(dir r3.Vec) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// WrapAngle maps an angle into (-π, π]. Infinite or NaN input yields NaN.
func WrapAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates along the shortest arc from a to b.
func LerpAngle(a, b, t float64) float64 {
	return WrapAngle(a + WrapAngle(b-a)*Clamp01(t))
}
