package shell

import (
	"context"

	"shellsmith/internal/errors"
	"shellsmith/internal/params"
)

// DefaultResolution is the sampling grid pitch used when a run does not
// specify one. Half a millimeter resolves every default feature (the
// smallest is the 1.5mm edge fillet) without making runs slow.
const DefaultResolution = 0.5

// Generate runs the full pipeline on one parameter set: validate, build
// the profile, solidify, split at the seam, carve each half's cutouts,
// and assemble the named result. Stages run strictly in order and the
// halves are carved sequentially, so identical inputs produce identical
// results.
func Generate(ctx context.Context, p *params.Params, res float64) (*Result, error) {
	if res <= 0 {
		res = DefaultResolution
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	prof, err := BuildProfile(p)
	if err != nil {
		return nil, err
	}

	body, err := Solidify(p, prof)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("solidify")
	}

	split, err := Split(p, body, DefaultSeam(p), res)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("split")
	}

	left, leftWarns := ApplyCutouts(p, split.Left, res)
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("cutouts")
	}
	right, rightWarns := ApplyCutouts(p, split.Right, res)

	warnings := append(leftWarns, rightWarns...)
	return assemble(left, right, warnings, p.Hash(), res), nil
}
