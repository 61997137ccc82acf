// Package solid is the geometry kernel: axis-aligned primitives combined
// by boolean set operations, with membership tests exact enough to carry
// the pipeline's invariants. Solids are immutable values; every boolean
// operation returns a new solid and never mutates its operands.
package solid

import "math"

// Solid is a watertight region of space defined by membership.
type Solid interface {
	// Contains reports whether p lies inside the solid.
	Contains(p Vec) bool
	// Bounds returns a box enclosing the solid.
	Bounds() Box
}

// bigCoord bounds the half-space primitive on its unbounded axes.
const bigCoord = 1e9

// Cylinder is a circular cylinder aligned with one axis. Center fixes the
// axis position; Lo/Hi bound the cylinder along the axis in absolute
// coordinates.
type Cylinder struct {
	Axis   Axis
	Center Vec // the axis passes through this point
	Radius float64
	Lo, Hi float64
}

// Contains implements Solid.
func (c Cylinder) Contains(p Vec) bool {
	h := p.Coord(c.Axis)
	if h < c.Lo || h > c.Hi {
		return false
	}
	var du, dv float64
	switch c.Axis {
	case AxisX:
		du, dv = p.Y-c.Center.Y, p.Z-c.Center.Z
	case AxisY:
		du, dv = p.X-c.Center.X, p.Z-c.Center.Z
	default:
		du, dv = p.X-c.Center.X, p.Y-c.Center.Y
	}
	return du*du+dv*dv <= c.Radius*c.Radius
}

// Bounds implements Solid.
func (c Cylinder) Bounds() Box {
	r := c.Radius
	switch c.Axis {
	case AxisX:
		return NewBox(c.Lo, c.Center.Y-r, c.Center.Z-r, c.Hi, c.Center.Y+r, c.Center.Z+r)
	case AxisY:
		return NewBox(c.Center.X-r, c.Lo, c.Center.Z-r, c.Center.X+r, c.Hi, c.Center.Z+r)
	default:
		return NewBox(c.Center.X-r, c.Center.Y-r, c.Lo, c.Center.X+r, c.Center.Y+r, c.Hi)
	}
}

// TriPrism is a triangular prism extruded along one axis. Tri holds the
// cross-section vertices in the perpendicular plane, as (u,v) pairs:
// (y,z) for AxisX, (x,z) for AxisY, (x,y) for AxisZ.
type TriPrism struct {
	Axis   Axis
	Tri    [3][2]float64
	Lo, Hi float64
}

// Contains implements Solid.
func (t TriPrism) Contains(p Vec) bool {
	h := p.Coord(t.Axis)
	if h < t.Lo || h > t.Hi {
		return false
	}
	var u, v float64
	switch t.Axis {
	case AxisX:
		u, v = p.Y, p.Z
	case AxisY:
		u, v = p.X, p.Z
	default:
		u, v = p.X, p.Y
	}
	return pointInTriangle(u, v, t.Tri)
}

// Bounds implements Solid.
func (t TriPrism) Bounds() Box {
	uMin, vMin := t.Tri[0][0], t.Tri[0][1]
	uMax, vMax := uMin, vMin
	for _, p := range t.Tri[1:] {
		uMin, uMax = math.Min(uMin, p[0]), math.Max(uMax, p[0])
		vMin, vMax = math.Min(vMin, p[1]), math.Max(vMax, p[1])
	}
	switch t.Axis {
	case AxisX:
		return NewBox(t.Lo, uMin, vMin, t.Hi, uMax, vMax)
	case AxisY:
		return NewBox(uMin, t.Lo, vMin, uMax, t.Hi, vMax)
	default:
		return NewBox(uMin, vMin, t.Lo, uMax, vMax, t.Hi)
	}
}

// pointInTriangle uses consistent cross-product signs; either winding works.
func pointInTriangle(u, v float64, tri [3][2]float64) bool {
	d1 := edgeSign(u, v, tri[0], tri[1])
	d2 := edgeSign(u, v, tri[1], tri[2])
	d3 := edgeSign(u, v, tri[2], tri[0])

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edgeSign(u, v float64, a, b [2]float64) float64 {
	return (u-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(v-b[1])
}

// HalfSpace keeps everything on one side of an axis-aligned plane.
// Below keeps coord < Level (strict); its complement keeps coord >= Level,
// so the two half-spaces of a plane partition space exactly. The split
// round-trip check relies on that partition.
type HalfSpace struct {
	Axis  Axis
	Level float64
	Below bool
}

// Contains implements Solid.
func (h HalfSpace) Contains(p Vec) bool {
	c := p.Coord(h.Axis)
	if h.Below {
		return c < h.Level
	}
	return c >= h.Level
}

// Bounds implements Solid.
func (h HalfSpace) Bounds() Box {
	min := Vec{-bigCoord, -bigCoord, -bigCoord}
	max := Vec{bigCoord, bigCoord, bigCoord}
	if h.Below {
		switch h.Axis {
		case AxisX:
			max.X = h.Level
		case AxisY:
			max.Y = h.Level
		default:
			max.Z = h.Level
		}
	} else {
		switch h.Axis {
		case AxisX:
			min.X = h.Level
		case AxisY:
			min.Y = h.Level
		default:
			min.Z = h.Level
		}
	}
	return Box{Min: min, Max: max}
}
