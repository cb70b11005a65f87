// Package vec provides the 3-component vector kernel used throughout
// the engine. Vec3 is a plain value type; every operation returns a new
// value and is total over all inputs, including zero vectors.
package vec

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func Zero() Vec3 {
	return Vec3{}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Invert negates every component.
func (v Vec3) Invert() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) SquaredMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector in v's direction. A zero vector is
// returned unchanged.
func (v Vec3) Normalize() Vec3 {
	mag := v.Magnitude()
	if mag > 0 {
		return v.Scale(1.0 / mag)
	}
	return v
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) ComponentProduct(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// AddScaled computes v*vs + o*os in one step. The integrators lean on
// this for their update equations.
func (v Vec3) AddScaled(o Vec3, vs, os float64) Vec3 {
	return Vec3{
		v.X*vs + o.X*os,
		v.Y*vs + o.Y*os,
		v.Z*vs + o.Z*os,
	}
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
