package shell

import (
	"testing"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/solid"
)

func splitShell(t *testing.T, p *params.Params) *SplitOutput {
	t.Helper()
	body := buildShell(t, p)
	out, err := Split(p, body, DefaultSeam(p), testRes)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	return out
}

func TestApplyCutoutsDefaults(t *testing.T) {
	p := params.Default()
	halves := splitShell(t, p)

	left, warns := ApplyCutouts(p, halves.Left, testRes)
	if len(warns) != 0 {
		t.Fatalf("default left half produced warnings: %v", warns)
	}
	right, warns := ApplyCutouts(p, halves.Right, testRes)
	if len(warns) != 0 {
		t.Fatalf("default right half produced warnings: %v", warns)
	}

	cases := []struct {
		name string
		half Half
		pt   solid.Vec
	}{
		{"main port opens left wall", left, solid.Vec{X: 1, Y: 150, Z: 10}},
		{"aux port opens left wall", left, solid.Vec{X: 1, Y: 55, Z: 10}},
		{"kickstand notches left floor", left, solid.Vec{X: 5, Y: 80, Z: 1.5}},
		{"camera pierces left floor", left, solid.Vec{X: 21, Y: 190, Z: 1.5}},
		{"first vent opens top wall", left, solid.Vec{X: 15, Y: 210, Z: 10.5}},
		{"main port opens right wall", right, solid.Vec{X: 306, Y: 150, Z: 10}},
		{"last vent opens top wall", right, solid.Vec{X: 292, Y: 210, Z: 10.5}},
	}
	for _, tc := range cases {
		if tc.half.Body.Contains(tc.pt) {
			t.Errorf("%s: %v still solid after cutouts", tc.name, tc.pt)
		}
	}

	// A port must not breach the floor under it.
	if !left.Body.Contains(solid.Vec{X: 1, Y: 150, Z: 1.5}) {
		t.Error("wall below the port opening should stay solid")
	}
}

func TestApplyCutoutsMissedOutsideBounds(t *testing.T) {
	p := params.Default()
	p.PortCutouts = append(p.PortCutouts, params.CutoutSpec{
		Name: "phantom", Side: params.SideLeft, Edge: params.EdgeRight,
		Offset: 50, Width: 20, Depth: 8,
	})
	halves := splitShell(t, p)

	baseline, _ := ApplyCutouts(params.Default(), halves.Left, testRes)
	left, warns := ApplyCutouts(p, halves.Left, testRes)

	found := false
	for _, w := range warns {
		if w.Cutout == "phantom" && w.Code == errors.WarnCutoutMissed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CUTOUT_MISSED for phantom cutout, got %v", warns)
	}

	// A missed cutout is skipped, never partially applied.
	b := halves.Left.Bounds
	if got, want := solid.VolumeInBox(left.Body, b, testRes), solid.VolumeInBox(baseline.Body, b, testRes); got != want {
		t.Errorf("missed cutout changed the half: %.2f != %.2f", got, want)
	}
}

func TestApplyCutoutsMissedInOpenAir(t *testing.T) {
	// Fully inside the main port's opening, so by the time it is applied
	// there is no material left for it to remove.
	p := params.Default()
	p.PortCutouts = append(p.PortCutouts, params.CutoutSpec{
		Name: "hollow", Side: params.SideLeft, Edge: params.EdgeLeft,
		Offset: 30, Width: 20, Depth: 8,
	})
	halves := splitShell(t, p)

	_, warns := ApplyCutouts(p, halves.Left, testRes)
	if len(warns) != 1 || warns[0].Cutout != "hollow" {
		t.Fatalf("expected single miss for %q, got %v", "hollow", warns)
	}
}

func TestVentStraddlingSeamCarvesBothHalves(t *testing.T) {
	p := params.Default()
	p.VentHoleCount = 3 // middle hole lands on the seam centerline
	halves := splitShell(t, p)

	left, _ := ApplyCutouts(p, halves.Left, testRes)
	right, _ := ApplyCutouts(p, halves.Right, testRes)

	if left.Body.Contains(solid.Vec{X: 152.5, Y: 210, Z: 10.5}) {
		t.Error("straddling vent should carve the left half")
	}
	if right.Body.Contains(solid.Vec{X: 154.5, Y: 210, Z: 10.5}) {
		t.Error("straddling vent should carve the right half")
	}
}
