// Package params defines the validated parameter set a generation run is
// derived from. All dimensions are millimeters. A parameter set is pure
// data: validation happens before any geometry operation, and every
// derived dimension is recomputed from it on each run.
package params

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shellsmith/internal/errors"
)

// Side identifies one of the two printable halves.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Edge identifies an edge of the tablet envelope, viewed from the back
// with the insertion face up: left/right are the short walls the seam is
// perpendicular to, top/bottom the long walls.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// CutoutSpec is a named rectangular subtraction associated with exactly
// one half and one edge. Offset runs along the edge, from the top outer
// corner on the left/right edges and from the left outer corner on the
// top/bottom edges; Width runs along the edge; Depth cuts into the
// material perpendicular to it. Height 0 means the full cavity band
// (ports) or the full floor (kickstand notches).
type CutoutSpec struct {
	Name   string  `json:"name" yaml:"name"`
	Side   Side    `json:"side" yaml:"side"`
	Edge   Edge    `json:"edge" yaml:"edge"`
	Offset float64 `json:"offset" yaml:"offset"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

// CameraCutout is a circular through-hole in the solid floor.
type CameraCutout struct {
	Side     Side    `json:"side" yaml:"side"`
	FromTop  float64 `json:"from_top" yaml:"from_top"`
	FromSide float64 `json:"from_side" yaml:"from_side"`
	Diameter float64 `json:"diameter" yaml:"diameter"`
}

// BottomWindow is the central material-saving through-window in the floor,
// leaving solid bands at the top and bottom for the camera and rigidity.
type BottomWindow struct {
	Enable      bool    `json:"enable" yaml:"enable"`
	Margin      float64 `json:"margin" yaml:"margin"`
	SolidTop    float64 `json:"solid_top" yaml:"solid_top"`
	SolidBottom float64 `json:"solid_bottom" yaml:"solid_bottom"`
}

// WeldGroove is the V-groove subtracted symmetrically along the seam so
// the two halves can be pen-welded after assembly.
type WeldGroove struct {
	Enable bool    `json:"enable" yaml:"enable"`
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Inset  float64 `json:"inset" yaml:"inset"`
}

// Engraving is a shallow rectangular recess in the outer floor face,
// a stand-in for an engraved label. It must never breach the floor.
type Engraving struct {
	Enable   bool    `json:"enable" yaml:"enable"`
	Side     Side    `json:"side" yaml:"side"`
	FromTop  float64 `json:"from_top" yaml:"from_top"`
	FromSide float64 `json:"from_side" yaml:"from_side"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Depth    float64 `json:"depth" yaml:"depth"`
}

// Params is the complete parameter set for one generation run.
type Params struct {
	TabletWidth     float64 `json:"tablet_width" yaml:"tablet_width"`
	TabletHeight    float64 `json:"tablet_height" yaml:"tablet_height"`
	TabletThickness float64 `json:"tablet_thickness" yaml:"tablet_thickness"`

	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
	Clearance     float64 `json:"clearance" yaml:"clearance"`

	LipVertical       float64 `json:"lip_vertical" yaml:"lip_vertical"`
	LipOverhang       float64 `json:"lip_overhang" yaml:"lip_overhang"`
	LipOverhangBottom float64 `json:"lip_overhang_bottom" yaml:"lip_overhang_bottom"`

	CornerFilletRadius float64 `json:"corner_fillet_radius" yaml:"corner_fillet_radius"`
	EdgeFilletRadius   float64 `json:"edge_fillet_radius" yaml:"edge_fillet_radius"`
	InnerFilletRadius  float64 `json:"inner_fillet_radius" yaml:"inner_fillet_radius"`

	VentHoleDiameter float64 `json:"vent_hole_diameter" yaml:"vent_hole_diameter"`
	VentHoleCount    int     `json:"vent_hole_count" yaml:"vent_hole_count"`
	VentEdgeMargin   float64 `json:"vent_edge_margin" yaml:"vent_edge_margin"`

	PortCutouts      []CutoutSpec  `json:"port_cutouts" yaml:"port_cutouts"`
	KickstandCutouts []CutoutSpec  `json:"kickstand_cutouts" yaml:"kickstand_cutouts"`
	Camera           *CameraCutout `json:"camera_cutout,omitempty" yaml:"camera_cutout,omitempty"`

	BottomWindow BottomWindow `json:"bottom_window" yaml:"bottom_window"`
	WeldGroove   WeldGroove   `json:"weld_groove" yaml:"weld_groove"`
	Engraving    *Engraving   `json:"engraving,omitempty" yaml:"engraving,omitempty"`

	// SeamOffset shifts the seam plane off the long-axis centerline.
	SeamOffset float64 `json:"seam_offset,omitempty" yaml:"seam_offset,omitempty"`
}

// Default returns the reference parameter set: the Asus ROG Flow Z13
// (2025) back shell the tool was originally dimensioned for.
func Default() *Params {
	return &Params{
		TabletWidth:     300,
		TabletHeight:    204,
		TabletThickness: 15,

		WallThickness: 3,
		Clearance:     0.5,

		LipVertical:       3,
		LipOverhang:       3,
		LipOverhangBottom: 9,

		CornerFilletRadius: 5,
		EdgeFilletRadius:   1.5,
		InnerFilletRadius:  5,

		VentHoleDiameter: 6,
		VentHoleCount:    16,
		VentEdgeMargin:   15,

		PortCutouts: []CutoutSpec{
			{Name: "ports_main_left", Side: SideLeft, Edge: EdgeLeft, Offset: 23, Width: 74, Depth: 8},
			{Name: "ports_aux_left", Side: SideLeft, Edge: EdgeLeft, Offset: 145, Width: 20, Depth: 8},
			{Name: "ports_main_right", Side: SideRight, Edge: EdgeRight, Offset: 20, Width: 72, Depth: 8},
			{Name: "ports_audio_right", Side: SideRight, Edge: EdgeRight, Offset: 138, Width: 37, Depth: 8},
		},
		KickstandCutouts: []CutoutSpec{
			{Name: "kickstand_left", Side: SideLeft, Edge: EdgeLeft, Offset: 100, Width: 55, Depth: 10},
			{Name: "kickstand_right", Side: SideRight, Edge: EdgeRight, Offset: 100, Width: 55, Depth: 10},
		},
		Camera: &CameraCutout{
			Side:     SideLeft,
			FromTop:  18,
			FromSide: 18,
			Diameter: 12,
		},

		BottomWindow: BottomWindow{Enable: true, Margin: 10, SolidTop: 40, SolidBottom: 40},
		WeldGroove:   WeldGroove{Enable: false, Width: 1.5, Depth: 1.8, Inset: 1.5},
	}
}

// Derived dimensions. The thickness axis is asymmetric: the lip replaces
// the top clearance band, so the realized height is smaller than the
// symmetric tablet+2×(wall+clearance) figure by LipReduction.

// CavityWidth returns the inner cavity width (tablet + clearance both sides).
func (p *Params) CavityWidth() float64 { return p.TabletWidth + 2*p.Clearance }

// CavityHeight returns the inner cavity height.
func (p *Params) CavityHeight() float64 { return p.TabletHeight + 2*p.Clearance }

// OuterWidth returns the outer envelope width.
func (p *Params) OuterWidth() float64 { return p.CavityWidth() + 2*p.WallThickness }

// OuterHeight returns the outer envelope height.
func (p *Params) OuterHeight() float64 { return p.CavityHeight() + 2*p.WallThickness }

// CavityDepth returns the cavity depth from open face to floor before lip
// reduction: tablet thickness plus clearance above and below.
func (p *Params) CavityDepth() float64 { return p.TabletThickness + 2*p.Clearance }

// LipReduction returns how far the lip band dips into the cavity's top
// clearance.
func (p *Params) LipReduction() float64 { return 2 * p.Clearance }

// TotalHeight returns the outer envelope thickness.
func (p *Params) TotalHeight() float64 {
	return p.WallThickness + p.CavityDepth() - p.LipReduction() + p.LipVertical
}

// FloorZ returns the z of the cavity floor (top of the solid bottom).
func (p *Params) FloorZ() float64 { return p.WallThickness }

// LipStartZ returns the z where the narrowed lip band begins.
func (p *Params) LipStartZ() float64 { return p.TotalHeight() - p.LipVertical }

// SeamX returns the x position of the seam plane.
func (p *Params) SeamX() float64 { return p.OuterWidth()/2 + p.SeamOffset }

// EdgeLength returns the outer length of the given edge.
func (p *Params) EdgeLength(e Edge) float64 {
	switch e {
	case EdgeTop, EdgeBottom:
		return p.OuterWidth()
	default:
		return p.OuterHeight()
	}
}

// VentPitch returns the center-to-center spacing of the vent pattern along
// the top edge. Zero when fewer than two holes are configured.
func (p *Params) VentPitch() float64 {
	return VentPitch(p.EdgeLength(EdgeTop), p.VentEdgeMargin, p.VentHoleCount)
}

// VentPitch computes the pitch for count holes centered on a span with the
// given margin on both ends.
func VentPitch(span, margin float64, count int) float64 {
	if count < 2 {
		return 0
	}
	return (span - 2*margin) / float64(count-1)
}

// Validate checks the parameter set for consistency. It returns a
// CONFIGURATION error on the first violation found; no geometry operation
// runs on an invalid set.
func (p *Params) Validate() error {
	if p.TabletWidth <= 0 || p.TabletHeight <= 0 || p.TabletThickness <= 0 {
		return errors.NewConfiguration("tablet dimensions must be positive")
	}
	if p.WallThickness <= 0 {
		return errors.NewConfigurationf("wall_thickness must be positive, got %.2f", p.WallThickness)
	}
	if p.Clearance < 0 {
		return errors.NewConfigurationf("clearance must not be negative, got %.2f", p.Clearance)
	}
	if p.LipVertical < 0 || p.LipOverhang < 0 || p.LipOverhangBottom < 0 {
		return errors.NewConfiguration("lip dimensions must not be negative")
	}
	if p.LipOverhang+p.LipOverhangBottom >= p.CavityHeight() {
		return errors.NewConfiguration("lip overhangs leave no opening in the cavity")
	}
	if 2*p.LipOverhang >= p.CavityWidth() {
		return errors.NewConfiguration("lip overhang leaves no opening across the cavity width")
	}
	if p.CornerFilletRadius < 0 || p.EdgeFilletRadius < 0 || p.InnerFilletRadius < 0 {
		return errors.NewConfiguration("fillet radii must not be negative")
	}

	if p.VentHoleCount < 0 {
		return errors.NewConfiguration("vent_hole_count must not be negative")
	}
	if p.VentHoleCount > 0 {
		if p.VentHoleDiameter <= 0 {
			return errors.NewConfiguration("vent_hole_diameter must be positive when vents are configured")
		}
		if err := validateVentSpan(p.EdgeLength(EdgeTop), p.VentEdgeMargin, p.VentHoleDiameter, p.VentHoleCount); err != nil {
			return err
		}
	}

	for _, c := range p.PortCutouts {
		if err := p.validateCutout(c, "port"); err != nil {
			return err
		}
	}
	for _, c := range p.KickstandCutouts {
		if err := p.validateCutout(c, "kickstand"); err != nil {
			return err
		}
	}

	if p.Camera != nil {
		if p.Camera.Diameter <= 0 {
			return errors.NewConfiguration("camera_cutout diameter must be positive")
		}
		if p.Camera.FromTop <= p.Camera.Diameter/2 || p.Camera.FromSide <= p.Camera.Diameter/2 {
			return errors.NewConfiguration("camera_cutout must not cross the outer boundary")
		}
		if err := validSide(p.Camera.Side); err != nil {
			return err
		}
	}

	if p.Engraving != nil && p.Engraving.Enable {
		if p.Engraving.Depth <= 0 || p.Engraving.Depth >= p.WallThickness {
			return errors.NewConfigurationf("engraving depth must lie strictly inside the %.2fmm floor", p.WallThickness)
		}
		if p.Engraving.Width <= 0 || p.Engraving.Height <= 0 {
			return errors.NewConfiguration("engraving extent must be positive")
		}
		if err := validSide(p.Engraving.Side); err != nil {
			return err
		}
	}

	if p.WeldGroove.Enable {
		if p.WeldGroove.Width <= 0 || p.WeldGroove.Depth <= 0 {
			return errors.NewConfiguration("weld_groove width and depth must be positive")
		}
		if p.WeldGroove.Depth >= p.WallThickness {
			return errors.NewConfigurationf("weld_groove depth must stay inside the %.2fmm wall", p.WallThickness)
		}
	}

	if p.SeamX() <= 0 || p.SeamX() >= p.OuterWidth() {
		return errors.NewConfiguration("seam_offset places the seam outside the shell")
	}

	return nil
}

func (p *Params) validateCutout(c CutoutSpec, kind string) error {
	name := c.Name
	if name == "" {
		name = kind
	}
	if err := validSide(c.Side); err != nil {
		return err
	}
	switch c.Edge {
	case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
	default:
		return errors.NewConfigurationf("cutout %q: unknown edge %q", name, c.Edge)
	}
	if c.Width <= 0 || c.Depth <= 0 {
		return errors.NewConfigurationf("cutout %q: width and depth must be positive", name)
	}
	if c.Height < 0 {
		return errors.NewConfigurationf("cutout %q: height must not be negative", name)
	}
	span := p.EdgeLength(c.Edge)
	if c.Offset < 0 || c.Offset+c.Width > span {
		return errors.NewConfigurationf("cutout %q: offset %.2f + width %.2f falls outside the %.2fmm %s edge",
			name, c.Offset, c.Width, span, c.Edge)
	}
	return nil
}

func validSide(s Side) error {
	if s != SideLeft && s != SideRight {
		return errors.NewConfigurationf("unknown side %q", s)
	}
	return nil
}

func validateVentSpan(span, margin, diameter float64, count int) error {
	if margin < 0 {
		return errors.NewConfiguration("vent_edge_margin must not be negative")
	}
	pitch := VentPitch(span, margin, count)
	if count >= 2 && pitch < diameter {
		return errors.NewConfigurationf("vent pattern overlaps itself: pitch %.2fmm < diameter %.2fmm", pitch, diameter)
	}
	// First and last hole must lie entirely within the span.
	if margin < diameter/2 || span-margin < diameter/2 {
		return errors.NewConfiguration("vent holes cross the edge span boundary")
	}
	if 2*margin >= span {
		return errors.NewConfiguration("vent_edge_margin leaves no span for the pattern")
	}
	return nil
}

// Load reads a parameter set from a JSON or YAML file, applied on top of
// the defaults so partial files work, and validates it.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationf("cannot read parameter file: %v", err)
	}

	p := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, p); err != nil {
			return nil, errors.NewConfigurationf("invalid JSON parameter file: %v", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, errors.NewConfigurationf("invalid YAML parameter file: %v", err)
		}
	default:
		return nil, errors.NewConfigurationf("unsupported parameter file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Hash returns a stable hex digest of the parameter set, used by the run
// journal to correlate identical runs.
func (p *Params) Hash() string {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("unhashable:%v", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
