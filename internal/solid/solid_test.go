package solid

import (
	"math"
	"testing"
)

func TestBox_Contains(t *testing.T) {
	b := NewBox(0, 0, 0, 10, 20, 30)

	inside := []Vec{{5, 10, 15}, {0, 0, 0}, {10, 20, 30}}
	for _, p := range inside {
		if !b.Contains(p) {
			t.Errorf("box should contain %v", p)
		}
	}

	outside := []Vec{{-1, 10, 15}, {5, 21, 15}, {5, 10, 31}}
	for _, p := range outside {
		if b.Contains(p) {
			t.Errorf("box should not contain %v", p)
		}
	}
}

func TestNewBox_NormalizesCorners(t *testing.T) {
	b := NewBox(10, 20, 30, 0, 0, 0)
	if b.Min != (Vec{0, 0, 0}) || b.Max != (Vec{10, 20, 30}) {
		t.Errorf("corners not normalized: %+v", b)
	}
}

func TestBox_VolumeAndIntersect(t *testing.T) {
	a := NewBox(0, 0, 0, 10, 10, 10)
	if a.Volume() != 1000 {
		t.Errorf("Volume = %v, want 1000", a.Volume())
	}

	b := NewBox(5, 5, 5, 15, 15, 15)
	if !a.Intersects(b) {
		t.Error("overlapping boxes should intersect")
	}
	ov := a.Intersect(b)
	if ov.Volume() != 125 {
		t.Errorf("overlap volume = %v, want 125", ov.Volume())
	}

	c := NewBox(20, 20, 20, 30, 30, 30)
	if a.Intersects(c) {
		t.Error("disjoint boxes should not intersect")
	}
	if !a.Intersect(c).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestCylinder_Contains(t *testing.T) {
	// Vertical cylinder, radius 3, z from 0 to 10.
	c := Cylinder{Axis: AxisZ, Center: Vec{X: 5, Y: 5}, Radius: 3, Lo: 0, Hi: 10}

	if !c.Contains(Vec{5, 5, 5}) {
		t.Error("axis point should be inside")
	}
	if !c.Contains(Vec{7.9, 5, 5}) {
		t.Error("point within radius should be inside")
	}
	if c.Contains(Vec{8.1, 5, 5}) {
		t.Error("point beyond radius should be outside")
	}
	if c.Contains(Vec{5, 5, 10.1}) {
		t.Error("point past the cap should be outside")
	}

	wantBounds := NewBox(2, 2, 0, 8, 8, 10)
	if !c.Bounds().ApproxEqual(wantBounds, 1e-12) {
		t.Errorf("Bounds = %+v, want %+v", c.Bounds(), wantBounds)
	}
}

func TestCylinder_HorizontalAxis(t *testing.T) {
	// The vent-hole shape: axis along Y, piercing a wall.
	c := Cylinder{Axis: AxisY, Center: Vec{X: 50, Z: 10}, Radius: 3, Lo: 200, Hi: 212}

	if !c.Contains(Vec{50, 206, 10}) {
		t.Error("center should be inside")
	}
	if c.Contains(Vec{50, 199, 10}) {
		t.Error("point before Lo should be outside")
	}
	if c.Contains(Vec{54, 206, 10}) {
		t.Error("point outside radius should be outside")
	}
}

func TestTriPrism_Contains(t *testing.T) {
	// V-groove cross-section in the (x,z) plane, extruded along Y.
	tri := TriPrism{
		Axis: AxisY,
		Tri:  [3][2]float64{{150, 21}, {157, 21}, {153.5, 19}},
		Lo:   0, Hi: 211,
	}

	if !tri.Contains(Vec{153.5, 100, 20.5}) {
		t.Error("point near the groove mouth should be inside")
	}
	if tri.Contains(Vec{153.5, 100, 18.5}) {
		t.Error("point below the apex should be outside")
	}
	if tri.Contains(Vec{153.5, 250, 20.5}) {
		t.Error("point past the extrusion should be outside")
	}

	// Reversed winding must behave identically.
	rev := TriPrism{
		Axis: AxisY,
		Tri:  [3][2]float64{{153.5, 19}, {157, 21}, {150, 21}},
		Lo:   0, Hi: 211,
	}
	if !rev.Contains(Vec{153.5, 100, 20.5}) {
		t.Error("winding direction must not matter")
	}
}

func TestHalfSpace_Partition(t *testing.T) {
	below := HalfSpace{Axis: AxisX, Level: 5, Below: true}
	above := HalfSpace{Axis: AxisX, Level: 5, Below: false}

	pts := []Vec{{4.9, 0, 0}, {5, 0, 0}, {5.1, 0, 0}}
	for _, p := range pts {
		inBelow := below.Contains(p)
		inAbove := above.Contains(p)
		if inBelow == inAbove {
			t.Errorf("point %v must be in exactly one half-space", p)
		}
	}
}

func TestDifference_Contains(t *testing.T) {
	base := NewBox(0, 0, 0, 10, 10, 10)
	hole := Cylinder{Axis: AxisZ, Center: Vec{X: 5, Y: 5}, Radius: 2, Lo: -1, Hi: 11}
	d := Difference(base, hole)

	if d.Contains(Vec{5, 5, 5}) {
		t.Error("point inside the hole should be removed")
	}
	if !d.Contains(Vec{1, 1, 5}) {
		t.Error("point outside the hole should remain")
	}
	if !d.Bounds().ApproxEqual(base.Bounds(), 0) {
		t.Error("difference keeps the base bounds")
	}
}

func TestUnion_Contains(t *testing.T) {
	a := NewBox(0, 0, 0, 10, 10, 10)
	b := NewBox(20, 0, 0, 30, 10, 10)
	u := Union(a, b)

	if !u.Contains(Vec{5, 5, 5}) || !u.Contains(Vec{25, 5, 5}) {
		t.Error("union should contain both members")
	}
	if u.Contains(Vec{15, 5, 5}) {
		t.Error("union should not contain the gap")
	}

	want := NewBox(0, 0, 0, 30, 10, 10)
	if !u.Bounds().ApproxEqual(want, 0) {
		t.Errorf("union bounds = %+v, want %+v", u.Bounds(), want)
	}
}

func TestIntersection_BoundsAndContains(t *testing.T) {
	a := NewBox(0, 0, 0, 10, 10, 10)
	b := NewBox(5, 5, 5, 15, 15, 15)
	i := Intersection(a, b)

	if !i.Contains(Vec{7, 7, 7}) {
		t.Error("common point should be inside")
	}
	if i.Contains(Vec{2, 2, 2}) {
		t.Error("point only in one member should be outside")
	}

	want := NewBox(5, 5, 5, 10, 10, 10)
	if !i.Bounds().ApproxEqual(want, 0) {
		t.Errorf("intersection bounds = %+v, want %+v", i.Bounds(), want)
	}
}

func TestVolume_BoxExact(t *testing.T) {
	b := NewBox(0, 0, 0, 10, 10, 10)
	got := Volume(b, 0.5)
	if math.Abs(got-1000) > 1e-9 {
		t.Errorf("Volume = %v, want exactly 1000 (all cell centers inside)", got)
	}
}

func TestVolume_CylinderApproximation(t *testing.T) {
	c := Cylinder{Axis: AxisZ, Center: Vec{X: 0, Y: 0}, Radius: 5, Lo: 0, Hi: 10}
	want := math.Pi * 25 * 10
	got := Volume(c, 0.25)
	if math.Abs(got-want)/want > 0.02 {
		t.Errorf("Volume = %v, want within 2%% of %v", got, want)
	}
}

func TestVolume_DegenerateRegion(t *testing.T) {
	flat := NewBox(0, 0, 0, 10, 10, 0)
	if Volume(flat, 0.5) != 0 {
		t.Error("zero-extent region has zero volume")
	}
}

func TestAnyInside(t *testing.T) {
	b := NewBox(0, 0, 0, 10, 10, 10)

	if !AnyInside(b, NewBox(5, 5, 5, 6, 6, 6), 0.5) {
		t.Error("region inside the solid should report true")
	}
	if AnyInside(b, NewBox(20, 20, 20, 25, 25, 25), 0.5) {
		t.Error("disjoint region should report false")
	}
}
