package solid

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// genBox draws a box with reasonable, nonzero extents.
func genBox() *rapid.Generator[Box] {
	return rapid.Custom(func(t *rapid.T) Box {
		w := rapid.Float64Range(1, 100).Draw(t, "w")
		h := rapid.Float64Range(1, 100).Draw(t, "h")
		d := rapid.Float64Range(1, 50).Draw(t, "d")
		return NewBox(0, 0, 0, w, h, d)
	})
}

// A plane through a solid partitions every sample point into exactly one
// side, so the measured volumes of the two sides always sum to the whole.
func TestVolumePartition_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		box := genBox().Draw(rt, "box")
		frac := rapid.Float64Range(0.05, 0.95).Draw(rt, "frac")
		level := box.Min.X + frac*box.Size().X

		below := Intersection(box, HalfSpace{Axis: AxisX, Level: level, Below: true})
		above := Intersection(box, HalfSpace{Axis: AxisX, Level: level, Below: false})

		const res = 2.0
		whole := VolumeInBox(box, box, res)
		sum := VolumeInBox(below, box, res) + VolumeInBox(above, box, res)

		if math.Abs(whole-sum) > 1e-6 {
			rt.Fatalf("partition broke volume: whole=%v sum=%v level=%v", whole, sum, level)
		}
	})
}

// Subtracting a cutter and measuring can never yield more material than
// the base solid.
func TestDifferenceMonotone_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		box := genBox().Draw(rt, "box")
		cx := rapid.Float64Range(box.Min.X, box.Max.X).Draw(rt, "cx")
		cy := rapid.Float64Range(box.Min.Y, box.Max.Y).Draw(rt, "cy")
		r := rapid.Float64Range(0.5, 20).Draw(rt, "r")

		hole := Cylinder{Axis: AxisZ, Center: Vec{X: cx, Y: cy}, Radius: r, Lo: box.Min.Z - 1, Hi: box.Max.Z + 1}
		cut := Difference(box, hole)

		const res = 2.0
		base := VolumeInBox(box, box, res)
		after := VolumeInBox(cut, box, res)

		if after > base+1e-9 {
			rt.Fatalf("subtraction increased volume: base=%v after=%v", base, after)
		}
	})
}
