package shell

import (
	"testing"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
)

func TestBuildProfileDefaults(t *testing.T) {
	prof, err := BuildProfile(params.Default())
	if err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}

	if prof.Outer.Width() != 307 || prof.Outer.Height() != 211 {
		t.Errorf("outer outline = %.1fx%.1f, want 307x211", prof.Outer.Width(), prof.Outer.Height())
	}
	if prof.Cavity.X0 != 3 || prof.Cavity.Y0 != 3 || prof.Cavity.X1 != 304 || prof.Cavity.Y1 != 208 {
		t.Errorf("cavity outline = %+v, want 3,3..304,208", prof.Cavity)
	}
	if prof.Lip.X0 != 6 || prof.Lip.X1 != 301 {
		t.Errorf("lip x = %.1f..%.1f, want 6..301", prof.Lip.X0, prof.Lip.X1)
	}
	// Bottom overhang is deeper than the others.
	if prof.Lip.Y0 != 12 || prof.Lip.Y1 != 205 {
		t.Errorf("lip y = %.1f..%.1f, want 12..205", prof.Lip.Y0, prof.Lip.Y1)
	}

	if prof.FloorZ != 3 || prof.LipStartZ != 18 || prof.TotalHeight != 21 {
		t.Errorf("heights = %.1f/%.1f/%.1f, want 3/18/21", prof.FloorZ, prof.LipStartZ, prof.TotalHeight)
	}
}

func TestBuildProfileLipTallerThanCavity(t *testing.T) {
	p := params.Default()
	p.LipVertical = p.CavityDepth()

	_, err := BuildProfile(p)
	if !errors.Is(err, errors.ErrGeometry) {
		t.Fatalf("expected GEOMETRY error, got %v", err)
	}
}

func TestBuildProfileLipClosesOpening(t *testing.T) {
	// Bypasses Validate on purpose: the profile builder must hold its own
	// invariants even on a raw parameter set.
	p := params.Default()
	p.LipOverhang = p.CavityWidth()

	_, err := BuildProfile(p)
	if !errors.Is(err, errors.ErrGeometry) {
		t.Fatalf("expected GEOMETRY error, got %v", err)
	}
}
