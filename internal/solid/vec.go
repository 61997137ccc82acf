package solid

import "math"

// Axis identifies a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vec is a point in millimeters.
type Vec struct {
	X, Y, Z float64
}

// Coord returns the component along the given axis.
func (v Vec) Coord(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Box is an axis-aligned bounding box. Min is inclusive, Max exclusive
// only in the degenerate sense that a zero-extent box contains nothing.
type Box struct {
	Min, Max Vec
}

// NewBox returns the box spanning the two corner points, normalized so
// Min <= Max on every axis.
func NewBox(x0, y0, z0, x1, y1, z1 float64) Box {
	return Box{
		Min: Vec{math.Min(x0, x1), math.Min(y0, y1), math.Min(z0, z1)},
		Max: Vec{math.Max(x0, x1), math.Max(y0, y1), math.Max(z0, z1)},
	}
}

// Contains reports whether p lies inside the box (boundary inclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Bounds implements Solid.
func (b Box) Bounds() Box { return b }

// Size returns the extent along each axis.
func (b Box) Size() Vec {
	return Vec{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// Volume returns the exact box volume.
func (b Box) Volume() float64 {
	s := b.Size()
	if s.X <= 0 || s.Y <= 0 || s.Z <= 0 {
		return 0
	}
	return s.X * s.Y * s.Z
}

// IsEmpty reports whether the box has no interior.
func (b Box) IsEmpty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z
}

// Intersects reports whether the two boxes overlap with nonzero volume.
func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y &&
		b.Min.Z < o.Max.Z && o.Min.Z < b.Max.Z
}

// Intersect returns the overlapping region of the two boxes. The result
// may be empty.
func (b Box) Intersect(o Box) Box {
	return Box{
		Min: Vec{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)},
	}
}

// Union returns the smallest box covering both.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Box{
		Min: Vec{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// ApproxEqual reports whether the two boxes match within tol on every corner.
func (b Box) ApproxEqual(o Box, tol float64) bool {
	return math.Abs(b.Min.X-o.Min.X) <= tol && math.Abs(b.Min.Y-o.Min.Y) <= tol &&
		math.Abs(b.Min.Z-o.Min.Z) <= tol && math.Abs(b.Max.X-o.Max.X) <= tol &&
		math.Abs(b.Max.Y-o.Max.Y) <= tol && math.Abs(b.Max.Z-o.Max.Z) <= tol
}
