package shell

import (
	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/solid"
)

// overcut extends cutters slightly past the faces they open, so boundary
// samples never survive a subtraction they should not.
const overcut = 0.5

// Solidify extrudes the profile into the hollow U-profile shell and
// applies the three fillet passes in order: inner cavity corners, outer
// vertical corners, outer horizontal edges. The edge cutters span between
// the already-placed corner fillets.
func Solidify(p *params.Params, prof *Profile) (solid.Solid, error) {
	if err := validateFillets(p, prof); err != nil {
		return nil, err
	}

	outer := solid.NewBox(prof.Outer.X0, prof.Outer.Y0, 0, prof.Outer.X1, prof.Outer.Y1, prof.TotalHeight)

	// Wide cavity band: floor to lip start.
	wideCavity := solid.NewBox(
		prof.Cavity.X0, prof.Cavity.Y0, prof.FloorZ,
		prof.Cavity.X1, prof.Cavity.Y1, prof.LipStartZ)

	// Narrow lip opening: lip start through the open face.
	lipOpening := solid.NewBox(
		prof.Lip.X0, prof.Lip.Y0, prof.LipStartZ,
		prof.Lip.X1, prof.Lip.Y1, prof.TotalHeight+overcut)

	cutters := []solid.Solid{wideCavity, lipOpening}

	if p.BottomWindow.Enable {
		window, err := bottomWindow(p, prof)
		if err != nil {
			return nil, err
		}
		cutters = append(cutters, window)
	}

	body := solid.Difference(outer, cutters...)

	// Pass 1: inner cavity corner fillets add material back into the four
	// cavity corners over the wide band.
	if p.InnerFilletRadius > 0 {
		fills := innerCornerFillets(prof, p.InnerFilletRadius)
		body = solid.Union(append([]solid.Solid{body}, fills...)...)
	}

	// Pass 2: outer vertical corner fillets.
	if p.CornerFilletRadius > 0 {
		body = solid.Difference(body, outerCornerCutters(prof, p.CornerFilletRadius)...)
	}

	// Pass 3: outer horizontal edge fillets, spanning between the corner
	// fillets.
	if p.EdgeFilletRadius > 0 {
		body = solid.Difference(body, outerEdgeCutters(prof, p.EdgeFilletRadius, p.CornerFilletRadius)...)
	}

	return body, nil
}

// validateFillets rejects radii that cannot produce a valid offset surface
// for the local feature size. Nothing is retried with a reduced radius:
// the parameter must be corrected and the run repeated.
func validateFillets(p *params.Params, prof *Profile) error {
	if r := p.InnerFilletRadius; r > 0 {
		if limit := minDim(prof.Cavity) / 2; r >= limit {
			return errors.NewFillet("inner", r, "radius exceeds half the shorter cavity side")
		}
	}
	if r := p.CornerFilletRadius; r > 0 {
		if limit := minDim(prof.Outer) / 2; r >= limit {
			return errors.NewFillet("corner", r, "radius exceeds half the shorter outer side")
		}
	}
	if r := p.EdgeFilletRadius; r > 0 {
		if r >= prof.TotalHeight/2 {
			return errors.NewFillet("edge", r, "radius exceeds half the shell height")
		}
		if p.CornerFilletRadius > 0 && r > p.CornerFilletRadius {
			return errors.NewFillet("edge", r, "edge fillet must not exceed the corner fillet it meets")
		}
	}
	return nil
}

func minDim(r Rect) float64 {
	if r.Width() < r.Height() {
		return r.Width()
	}
	return r.Height()
}

// bottomWindow is the central material-saving through-window in the floor,
// leaving solid bands at the top and bottom of the cavity.
func bottomWindow(p *params.Params, prof *Profile) (solid.Solid, error) {
	w := p.BottomWindow
	x0 := prof.Cavity.X0 + w.Margin
	x1 := prof.Cavity.X1 - w.Margin
	y0 := prof.Cavity.Y0 + w.Margin + w.SolidBottom
	y1 := prof.Cavity.Y1 - w.Margin - w.SolidTop
	if x1-x0 <= 0 || y1-y0 <= 0 {
		return nil, errors.NewGeometry("bottom window margins consume the entire floor")
	}
	return solid.NewBox(x0, y0, -overcut, x1, y1, prof.FloorZ+0.1), nil
}

// innerCornerFillets returns the four quarter-round material additions for
// the cavity corners, limited to the wide cavity band.
func innerCornerFillets(prof *Profile, r float64) []solid.Solid {
	c := prof.Cavity
	lo, hi := prof.FloorZ, prof.LipStartZ
	corners := []struct {
		bx0, by0, bx1, by1 float64 // corner square
		cx, cy             float64 // quarter-cylinder center
	}{
		{c.X0, c.Y0, c.X0 + r, c.Y0 + r, c.X0 + r, c.Y0 + r},
		{c.X1 - r, c.Y0, c.X1, c.Y0 + r, c.X1 - r, c.Y0 + r},
		{c.X0, c.Y1 - r, c.X0 + r, c.Y1, c.X0 + r, c.Y1 - r},
		{c.X1 - r, c.Y1 - r, c.X1, c.Y1, c.X1 - r, c.Y1 - r},
	}

	fills := make([]solid.Solid, 0, len(corners))
	for _, k := range corners {
		square := solid.NewBox(k.bx0, k.by0, lo, k.bx1, k.by1, hi)
		round := solid.Cylinder{
			Axis:   solid.AxisZ,
			Center: solid.Vec{X: k.cx, Y: k.cy},
			Radius: r,
			Lo:     lo, Hi: hi,
		}
		fills = append(fills, solid.Difference(square, round))
	}
	return fills
}

// outerCornerCutters removes the material outside a quarter cylinder at
// each outer vertical corner, over the full height.
func outerCornerCutters(prof *Profile, r float64) []solid.Solid {
	o := prof.Outer
	lo, hi := -overcut, prof.TotalHeight+overcut
	corners := []struct {
		bx0, by0, bx1, by1 float64
		cx, cy             float64
	}{
		{o.X0, o.Y0, o.X0 + r, o.Y0 + r, o.X0 + r, o.Y0 + r},
		{o.X1 - r, o.Y0, o.X1, o.Y0 + r, o.X1 - r, o.Y0 + r},
		{o.X0, o.Y1 - r, o.X0 + r, o.Y1, o.X0 + r, o.Y1 - r},
		{o.X1 - r, o.Y1 - r, o.X1, o.Y1, o.X1 - r, o.Y1 - r},
	}

	cutters := make([]solid.Solid, 0, len(corners))
	for _, k := range corners {
		square := solid.NewBox(k.bx0, k.by0, lo, k.bx1, k.by1, hi)
		keep := solid.Cylinder{
			Axis:   solid.AxisZ,
			Center: solid.Vec{X: k.cx, Y: k.cy},
			Radius: r,
			Lo:     lo, Hi: hi,
		}
		cutters = append(cutters, solid.Difference(square, keep))
	}
	return cutters
}

// outerEdgeCutters rounds the eight horizontal outer edges (top and bottom
// rims). Each cutter spans between the corner fillets so it never crosses
// an already-rounded corner silhouette.
func outerEdgeCutters(prof *Profile, r, cornerR float64) []solid.Solid {
	o := prof.Outer
	th := prof.TotalHeight

	xLo, xHi := o.X0+cornerR, o.X1-cornerR
	yLo, yHi := o.Y0+cornerR, o.Y1-cornerR

	type edge struct {
		box  solid.Box
		keep solid.Cylinder
	}
	edges := []edge{
		// Top rim (z = th), four edges.
		{solid.NewBox(xLo, o.Y0-overcut, th-r, xHi, o.Y0+r, th+overcut),
			solid.Cylinder{Axis: solid.AxisX, Center: solid.Vec{Y: o.Y0 + r, Z: th - r}, Radius: r, Lo: xLo, Hi: xHi}},
		{solid.NewBox(xLo, o.Y1-r, th-r, xHi, o.Y1+overcut, th+overcut),
			solid.Cylinder{Axis: solid.AxisX, Center: solid.Vec{Y: o.Y1 - r, Z: th - r}, Radius: r, Lo: xLo, Hi: xHi}},
		{solid.NewBox(o.X0-overcut, yLo, th-r, o.X0+r, yHi, th+overcut),
			solid.Cylinder{Axis: solid.AxisY, Center: solid.Vec{X: o.X0 + r, Z: th - r}, Radius: r, Lo: yLo, Hi: yHi}},
		{solid.NewBox(o.X1-r, yLo, th-r, o.X1+overcut, yHi, th+overcut),
			solid.Cylinder{Axis: solid.AxisY, Center: solid.Vec{X: o.X1 - r, Z: th - r}, Radius: r, Lo: yLo, Hi: yHi}},
		// Bottom rim (z = 0).
		{solid.NewBox(xLo, o.Y0-overcut, -overcut, xHi, o.Y0+r, r),
			solid.Cylinder{Axis: solid.AxisX, Center: solid.Vec{Y: o.Y0 + r, Z: r}, Radius: r, Lo: xLo, Hi: xHi}},
		{solid.NewBox(xLo, o.Y1-r, -overcut, xHi, o.Y1+overcut, r),
			solid.Cylinder{Axis: solid.AxisX, Center: solid.Vec{Y: o.Y1 - r, Z: r}, Radius: r, Lo: xLo, Hi: xHi}},
		{solid.NewBox(o.X0-overcut, yLo, -overcut, o.X0+r, yHi, r),
			solid.Cylinder{Axis: solid.AxisY, Center: solid.Vec{X: o.X0 + r, Z: r}, Radius: r, Lo: yLo, Hi: yHi}},
		{solid.NewBox(o.X1-r, yLo, -overcut, o.X1+overcut, yHi, r),
			solid.Cylinder{Axis: solid.AxisY, Center: solid.Vec{X: o.X1 - r, Z: r}, Radius: r, Lo: yLo, Hi: yHi}},
	}

	cutters := make([]solid.Solid, 0, len(edges))
	for _, e := range edges {
		cutters = append(cutters, solid.Difference(e.box, e.keep))
	}
	return cutters
}
