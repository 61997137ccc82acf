package shell

import (
	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/solid"
)

// SeamPlane is the axis-aligned plane the shell is split along.
type SeamPlane struct {
	Axis  solid.Axis
	Level float64
}

// DefaultSeam returns the plane through the shell's long-axis centerline,
// aligned with the tablet insertion direction, so each half is a
// near-symmetric clamshell side.
func DefaultSeam(p *params.Params) SeamPlane {
	return SeamPlane{Axis: solid.AxisX, Level: p.SeamX()}
}

// Half is one printable side of the split shell. It owns its portion of
// the cavity and lip and carries the side identity that selects which
// cutout set applies.
type Half struct {
	Side   params.Side
	Body   solid.Solid
	Bounds solid.Box
}

// SplitOutput holds the two halves sharing the seam face.
type SplitOutput struct {
	Left  Half
	Right Half
}

// Split intersects the shell with the two half-spaces of the seam plane
// and verifies the round-trip property: rejoined at the seam, the halves
// must reconstruct the shell's volume within tolerance. The optional weld
// groove is subtracted from both halves after the check; it is supposed
// to remove seam material.
func Split(p *params.Params, shellSolid solid.Solid, seam SeamPlane, res float64) (*SplitOutput, error) {
	bounds := shellSolid.Bounds()
	if seam.Level <= bounds.Min.Coord(seam.Axis) || seam.Level >= bounds.Max.Coord(seam.Axis) {
		return nil, errors.NewGeometryf(
			"seam plane at %.2fmm lies outside the shell (%.2f..%.2f): split would produce a degenerate half",
			seam.Level, bounds.Min.Coord(seam.Axis), bounds.Max.Coord(seam.Axis))
	}

	left := solid.Intersection(shellSolid, solid.HalfSpace{Axis: seam.Axis, Level: seam.Level, Below: true})
	right := solid.Intersection(shellSolid, solid.HalfSpace{Axis: seam.Axis, Level: seam.Level, Below: false})

	// Round-trip check on a grid shared by all three bodies, so the
	// half-space partition is exact on every sample point.
	whole := solid.VolumeInBox(shellSolid, bounds, res)
	sum := solid.VolumeInBox(left, bounds, res) + solid.VolumeInBox(right, bounds, res)
	deviation := abs(whole - sum)
	tolerance := 0.01 * seamArea(bounds, seam.Axis)
	if deviation > tolerance {
		return nil, errors.NewSplitIntegrity(deviation, tolerance)
	}

	leftBody, rightBody := solid.Solid(left), solid.Solid(right)
	if p.WeldGroove.Enable {
		grooves := weldGrooves(p, seam)
		leftBody = solid.Difference(leftBody, grooves...)
		rightBody = solid.Difference(rightBody, grooves...)
	}

	leftBounds, rightBounds := bounds, bounds
	switch seam.Axis {
	case solid.AxisX:
		leftBounds.Max.X, rightBounds.Min.X = seam.Level, seam.Level
	case solid.AxisY:
		leftBounds.Max.Y, rightBounds.Min.Y = seam.Level, seam.Level
	default:
		leftBounds.Max.Z, rightBounds.Min.Z = seam.Level, seam.Level
	}

	return &SplitOutput{
		Left:  Half{Side: params.SideLeft, Body: leftBody, Bounds: leftBounds},
		Right: Half{Side: params.SideRight, Body: rightBody, Bounds: rightBounds},
	}, nil
}

// seamArea is the area of the shell's cross-section at the seam plane,
// taken from the bounding box.
func seamArea(b solid.Box, axis solid.Axis) float64 {
	s := b.Size()
	switch axis {
	case solid.AxisX:
		return s.Y * s.Z
	case solid.AxisY:
		return s.X * s.Z
	default:
		return s.X * s.Y
	}
}

// weldGrooves builds the four V-prisms of the pen-welding groove: one on
// each outer face crossed by the seam, apex pointing into the material,
// symmetric across the seam so the halves align when rejoined.
func weldGrooves(p *params.Params, seam SeamPlane) []solid.Solid {
	g := p.WeldGroove
	sx := seam.Level
	oh := p.OuterHeight()
	th := p.TotalHeight()

	return []solid.Solid{
		// Front face (y = 0): vertical run over the full height.
		solid.TriPrism{
			Axis: solid.AxisZ,
			Tri:  [3][2]float64{{sx - g.Width, -overcut}, {sx + g.Width, -overcut}, {sx, g.Depth}},
			Lo:   -overcut, Hi: th + overcut,
		},
		// Back face (y = outer height): vertical run.
		solid.TriPrism{
			Axis: solid.AxisZ,
			Tri:  [3][2]float64{{sx - g.Width, oh + overcut}, {sx + g.Width, oh + overcut}, {sx, oh - g.Depth}},
			Lo:   -overcut, Hi: th + overcut,
		},
		// Open face (z = total height): horizontal run, inset from the rims.
		solid.TriPrism{
			Axis: solid.AxisY,
			Tri:  [3][2]float64{{sx - g.Width, th + overcut}, {sx + g.Width, th + overcut}, {sx, th - g.Depth}},
			Lo:   g.Inset, Hi: oh - g.Inset,
		},
		// Bottom face (z = 0): horizontal run.
		solid.TriPrism{
			Axis: solid.AxisY,
			Tri:  [3][2]float64{{sx - g.Width, -overcut}, {sx + g.Width, -overcut}, {sx, g.Depth}},
			Lo:   g.Inset, Hi: oh - g.Inset,
		},
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
