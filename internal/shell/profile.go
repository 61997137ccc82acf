// Package shell is the generation pipeline: parameter set → profile →
// shell solid → halves → cutouts → named result. Each stage consumes the
// previous stage's value and returns a new immutable one; nothing is
// shared between runs.
package shell

import (
	"shellsmith/internal/errors"
	"shellsmith/internal/params"
)

// Rect is a closed 2D outline in the XY plane.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the X extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the Y extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// ContainsRect reports whether o lies inside r with at least min offset on
// every side.
func (r Rect) ContainsRect(o Rect, min float64) bool {
	return o.X0-r.X0 >= min && o.Y0-r.Y0 >= min &&
		r.X1-o.X1 >= min && r.Y1-o.Y1 >= min
}

// Profile is the U-profile cross-section: the outer boundary, the inner
// cavity boundary inset uniformly by the wall thickness, and the narrower
// lip opening nested inside the cavity.
type Profile struct {
	Outer  Rect
	Cavity Rect
	Lip    Rect

	// Heights derived alongside the outlines so the solidifier works from
	// one consistent view.
	FloorZ      float64 // top of the solid bottom
	LipStartZ   float64 // where the narrowed lip band begins
	TotalHeight float64
}

// BuildProfile derives the profile from a validated parameter set.
// It fails with a GEOMETRY error when the lip cannot retain the cavity.
func BuildProfile(p *params.Params) (*Profile, error) {
	if p.LipVertical >= p.CavityDepth() {
		return nil, errors.NewGeometryf(
			"lip height %.2fmm must be smaller than cavity depth %.2fmm: cannot form a retaining lip taller than the cavity it retains",
			p.LipVertical, p.CavityDepth())
	}

	w := p.WallThickness
	outer := Rect{0, 0, p.OuterWidth(), p.OuterHeight()}
	cavity := Rect{w, w, outer.X1 - w, outer.Y1 - w}

	// The lip is inset asymmetrically: deeper at the bottom edge where it
	// carries the tablet's weight.
	lip := Rect{
		X0: cavity.X0 + p.LipOverhang,
		Y0: cavity.Y0 + p.LipOverhangBottom,
		X1: cavity.X1 - p.LipOverhang,
		Y1: cavity.Y1 - p.LipOverhang,
	}

	if !outer.ContainsRect(cavity, w) {
		return nil, errors.NewGeometry("cavity boundary breaches the minimum wall offset")
	}
	if lip.Width() <= 0 || lip.Height() <= 0 {
		return nil, errors.NewGeometry("lip overhangs close the cavity opening entirely")
	}
	if !cavity.ContainsRect(lip, 0) {
		return nil, errors.NewGeometry("lip boundary must nest inside the cavity boundary")
	}

	return &Profile{
		Outer:       outer,
		Cavity:      cavity,
		Lip:         lip,
		FloorZ:      p.FloorZ(),
		LipStartZ:   p.LipStartZ(),
		TotalHeight: p.TotalHeight(),
	}, nil
}
