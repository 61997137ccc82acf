package shell

import (
	"shellsmith/internal/errors"
	"shellsmith/internal/solid"
)

// Body is one finished printable half with its measured properties.
type Body struct {
	Name      string
	Solid     solid.Solid
	Bounds    solid.Box
	VolumeMM3 float64
}

// Result is the outcome of a complete generation run: two named halves,
// the non-fatal warnings collected along the way, and the hash of the
// parameter set that produced them.
type Result struct {
	Left       Body
	Right      Body
	Warnings   []errors.Warning
	ParamsHash string
}

// assemble names the finished halves and measures their volumes on the
// run's sampling grid. The names match the bodies a slicer operator
// expects to see.
func assemble(left, right Half, warnings []errors.Warning, hash string, res float64) *Result {
	return &Result{
		Left:       finishBody("Left_Half_Final", left, res),
		Right:      finishBody("Right_Half_Final", right, res),
		Warnings:   warnings,
		ParamsHash: hash,
	}
}

func finishBody(name string, h Half, res float64) Body {
	return Body{
		Name:      name,
		Solid:     h.Body,
		Bounds:    h.Bounds,
		VolumeMM3: solid.VolumeInBox(h.Body, h.Bounds, res),
	}
}
