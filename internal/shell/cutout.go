package shell

import (
	"fmt"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/solid"
)

// cutout pairs a subtraction primitive with the name reported when it
// misses.
type cutout struct {
	name string
	body solid.Solid
}

// ApplyCutouts carves the half's side-specific cutout set in a fixed,
// deterministic order: ports first (largest structural impact), then
// kickstand notches, ventilation holes, the camera hole, and finally the
// engraving pocket. Every cutout is an independent subtraction, so a
// failure is attributable; one that removes no material raises a
// CUTOUT_MISSED warning and leaves the half unchanged.
func ApplyCutouts(p *params.Params, h Half, res float64) (Half, []errors.Warning) {
	var warnings []errors.Warning
	body := h.Body

	for _, c := range buildCutouts(p, h) {
		cb := c.body.Bounds()
		if !cb.Intersects(h.Bounds) {
			warnings = append(warnings, errors.NewCutoutMissed(c.name, "primitive lies outside the half's bounds"))
			continue
		}
		overlap := cb.Intersect(h.Bounds)
		if !solid.AnyInside(solid.Intersection(body, c.body), overlap, res) {
			warnings = append(warnings, errors.NewCutoutMissed(c.name, "primitive intersects no material"))
			continue
		}
		body = solid.Difference(body, c.body)
	}

	out := h
	out.Body = body
	return out, warnings
}

// buildCutouts assembles the ordered cutout list for one half. All
// positions derive from the parameter set's edge spans, never from
// hardcoded coordinates, so the same specs follow a resized tablet.
func buildCutouts(p *params.Params, h Half) []cutout {
	var list []cutout

	for i, spec := range p.PortCutouts {
		if spec.Side != h.Side {
			continue
		}
		list = append(list, cutout{
			name: cutoutName(spec.Name, "port", i),
			body: portCutter(p, spec),
		})
	}

	for i, spec := range p.KickstandCutouts {
		if spec.Side != h.Side {
			continue
		}
		list = append(list, cutout{
			name: cutoutName(spec.Name, "kickstand", i),
			body: kickstandCutter(p, spec),
		})
	}

	list = append(list, ventCutters(p, h)...)

	if cam := p.Camera; cam != nil && cam.Side == h.Side {
		list = append(list, cutout{name: "camera", body: cameraCutter(p, cam)})
	}

	if eng := p.Engraving; eng != nil && eng.Enable && eng.Side == h.Side {
		list = append(list, cutout{name: "engraving", body: engravingCutter(p, eng)})
	}

	return list
}

func cutoutName(name, kind string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", kind, i)
}

// portCutter opens a box through a side wall. Offset runs from the top
// outer corner for the left/right edges and from the left outer corner
// for the top/bottom edges. Height 0 opens the wall up through the open
// face, lip included.
func portCutter(p *params.Params, c params.CutoutSpec) solid.Solid {
	ow, oh, th := p.OuterWidth(), p.OuterHeight(), p.TotalHeight()

	zLo := p.FloorZ()
	zHi := th + overcut
	if c.Height > 0 {
		zHi = zLo + c.Height
	}

	switch c.Edge {
	case params.EdgeLeft:
		return solid.NewBox(-overcut, oh-c.Offset-c.Width, zLo, c.Depth, oh-c.Offset, zHi)
	case params.EdgeRight:
		return solid.NewBox(ow-c.Depth, oh-c.Offset-c.Width, zLo, ow+overcut, oh-c.Offset, zHi)
	case params.EdgeTop:
		return solid.NewBox(c.Offset, oh-c.Depth, zLo, c.Offset+c.Width, oh+overcut, zHi)
	default: // bottom
		return solid.NewBox(c.Offset, -overcut, zLo, c.Offset+c.Width, c.Depth, zHi)
	}
}

// kickstandCutter notches the floor just inside a side wall, so the
// kickstand hinge clears the shell while the wall and lip stay intact.
func kickstandCutter(p *params.Params, c params.CutoutSpec) solid.Solid {
	ow, oh := p.OuterWidth(), p.OuterHeight()
	w := p.WallThickness
	zLo, zHi := -overcut, p.FloorZ()+0.1

	switch c.Edge {
	case params.EdgeLeft:
		return solid.NewBox(w, oh-c.Offset-c.Width, zLo, w+c.Depth, oh-c.Offset, zHi)
	case params.EdgeRight:
		return solid.NewBox(ow-w-c.Depth, oh-c.Offset-c.Width, zLo, ow-w, oh-c.Offset, zHi)
	case params.EdgeTop:
		return solid.NewBox(c.Offset, oh-w-c.Depth, zLo, c.Offset+c.Width, oh-w, zHi)
	default: // bottom
		return solid.NewBox(c.Offset, w, zLo, c.Offset+c.Width, w+c.Depth, zHi)
	}
}

// ventCutters lays the ventilation pattern along the top edge: count
// holes at a computed pitch, centered on the span, recomputed from the
// edge length on every run. A hole belongs to the half its footprint
// overlaps; one straddling the seam is carved from both halves.
func ventCutters(p *params.Params, h Half) []cutout {
	if p.VentHoleCount <= 0 {
		return nil
	}

	span := p.EdgeLength(params.EdgeTop)
	r := p.VentHoleDiameter / 2
	pitch := params.VentPitch(span, p.VentEdgeMargin, p.VentHoleCount)

	oh := p.OuterHeight()
	// Hole axis at mid-height of the wide cavity band, through the top wall.
	z := p.FloorZ() + (p.LipStartZ()-p.FloorZ())/2

	var list []cutout
	for i := 0; i < p.VentHoleCount; i++ {
		x := span / 2
		if p.VentHoleCount > 1 {
			x = p.VentEdgeMargin + float64(i)*pitch
		}
		if x+r <= h.Bounds.Min.X || x-r >= h.Bounds.Max.X {
			continue
		}
		list = append(list, cutout{
			name: fmt.Sprintf("vent_%d", i),
			body: solid.Cylinder{
				Axis:   solid.AxisY,
				Center: solid.Vec{X: x, Z: z},
				Radius: r,
				Lo:     oh - p.WallThickness - 1,
				Hi:     oh + overcut,
			},
		})
	}
	return list
}

// cameraCutter drills the rear camera hole through the solid floor.
func cameraCutter(p *params.Params, cam *params.CameraCutout) solid.Solid {
	w := p.WallThickness
	cx := w + cam.FromSide
	if cam.Side == params.SideRight {
		cx = p.OuterWidth() - w - cam.FromSide
	}
	return solid.Cylinder{
		Axis:   solid.AxisZ,
		Center: solid.Vec{X: cx, Y: p.OuterHeight() - w - cam.FromTop},
		Radius: cam.Diameter / 2,
		Lo:     -overcut,
		Hi:     p.FloorZ() + overcut,
	}
}

// engravingCutter recesses a shallow label pocket into the outer floor
// face. Depth is validated against the wall so it never breaks through.
func engravingCutter(p *params.Params, eng *params.Engraving) solid.Solid {
	x0 := eng.FromSide
	if eng.Side == params.SideRight {
		x0 = p.OuterWidth() - eng.FromSide - eng.Width
	}
	y1 := p.OuterHeight() - eng.FromTop
	return solid.NewBox(x0, y1-eng.Height, -overcut, x0+eng.Width, y1, eng.Depth)
}
