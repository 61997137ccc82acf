package shell

import (
	"testing"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
	"shellsmith/internal/solid"
)

const testRes = 2.0

func TestSplitDefaultShell(t *testing.T) {
	p := params.Default()
	body := buildShell(t, p)

	out, err := Split(p, body, DefaultSeam(p), testRes)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if out.Left.Side != params.SideLeft || out.Right.Side != params.SideRight {
		t.Errorf("half sides = %s/%s, want left/right", out.Left.Side, out.Right.Side)
	}
	if out.Left.Bounds.Max.X != 153.5 || out.Right.Bounds.Min.X != 153.5 {
		t.Errorf("halves not clipped at the seam: %.1f / %.1f", out.Left.Bounds.Max.X, out.Right.Bounds.Min.X)
	}

	// Rejoined at the seam, the halves reconstruct the shell exactly on a
	// shared grid: every sample point lands in exactly one half.
	bounds := body.Bounds()
	whole := solid.VolumeInBox(body, bounds, testRes)
	sum := solid.VolumeInBox(out.Left.Body, bounds, testRes) + solid.VolumeInBox(out.Right.Body, bounds, testRes)
	if whole != sum {
		t.Errorf("round trip lost volume: whole=%.2f sum=%.2f", whole, sum)
	}
}

func TestSplitSeamOutsideShell(t *testing.T) {
	p := params.Default()
	body := buildShell(t, p)

	_, err := Split(p, body, SeamPlane{Axis: solid.AxisX, Level: 400}, testRes)
	if !errors.Is(err, errors.ErrGeometry) {
		t.Fatalf("expected GEOMETRY error, got %v", err)
	}
}

func TestSplitWeldGroove(t *testing.T) {
	p := params.Default()
	body := buildShell(t, p)

	// Mid-wall point on the front face V-groove, right at the seam.
	probe := solid.Vec{X: 153.5, Y: 0.5, Z: 10}

	out, err := Split(p, body, DefaultSeam(p), testRes)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if !out.Right.Body.Contains(probe) {
		t.Fatal("seam wall point should be solid with the groove disabled")
	}

	p.WeldGroove.Enable = true
	out, err = Split(p, body, DefaultSeam(p), testRes)
	if err != nil {
		t.Fatalf("Split with groove failed: %v", err)
	}
	if out.Right.Body.Contains(probe) {
		t.Error("groove should carve the seam wall point from the right half")
	}
	if out.Left.Body.Contains(solid.Vec{X: 153.2, Y: 0.5, Z: 10}) {
		t.Error("groove should carve symmetrically into the left half")
	}
}
