package export

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"math"

	"shellsmith/internal/errors"
	"shellsmith/internal/solid"
)

// triangle is one facet of the surface mesh, float32 per the STL format.
type triangle struct {
	n       [3]float32
	a, b, c [3]float32
}

// mesh voxelizes the solid over its bounds at the given resolution and
// emits the boundary faces between occupied and empty cells. Every face
// separates exactly one occupied cell from one empty (or outside) cell,
// so the resulting mesh is closed by construction.
func mesh(ctx context.Context, s solid.Solid, bounds solid.Box, res float64) ([]triangle, error) {
	size := bounds.Size()
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, errors.NewExport("cannot mesh an empty solid")
	}

	nx := int(math.Ceil(size.X / res))
	ny := int(math.Ceil(size.Y / res))
	nz := int(math.Ceil(size.Z / res))
	cx := size.X / float64(nx)
	cy := size.Y / float64(ny)
	cz := size.Z / float64(nz)

	occ := make([]bool, nx*ny*nz)
	idx := func(i, j, k int) int { return (i*ny+j)*nz + k }

	for i := 0; i < nx; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled("mesh")
		}
		x := bounds.Min.X + (float64(i)+0.5)*cx
		for j := 0; j < ny; j++ {
			y := bounds.Min.Y + (float64(j)+0.5)*cy
			for k := 0; k < nz; k++ {
				z := bounds.Min.Z + (float64(k)+0.5)*cz
				occ[idx(i, j, k)] = s.Contains(solid.Vec{X: x, Y: y, Z: z})
			}
		}
	}

	empty := func(i, j, k int) bool {
		if i < 0 || j < 0 || k < 0 || i >= nx || j >= ny || k >= nz {
			return true
		}
		return !occ[idx(i, j, k)]
	}

	var tris []triangle
	for i := 0; i < nx; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled("mesh")
		}
		x0 := bounds.Min.X + float64(i)*cx
		x1 := x0 + cx
		for j := 0; j < ny; j++ {
			y0 := bounds.Min.Y + float64(j)*cy
			y1 := y0 + cy
			for k := 0; k < nz; k++ {
				if !occ[idx(i, j, k)] {
					continue
				}
				z0 := bounds.Min.Z + float64(k)*cz
				z1 := z0 + cz

				// One quad per exposed face, wound counter-clockwise seen
				// from outside.
				if empty(i+1, j, k) {
					tris = appendQuad(tris, [3]float32{1, 0, 0},
						vtx(x1, y0, z0), vtx(x1, y1, z0), vtx(x1, y1, z1), vtx(x1, y0, z1))
				}
				if empty(i-1, j, k) {
					tris = appendQuad(tris, [3]float32{-1, 0, 0},
						vtx(x0, y0, z0), vtx(x0, y0, z1), vtx(x0, y1, z1), vtx(x0, y1, z0))
				}
				if empty(i, j+1, k) {
					tris = appendQuad(tris, [3]float32{0, 1, 0},
						vtx(x0, y1, z0), vtx(x0, y1, z1), vtx(x1, y1, z1), vtx(x1, y1, z0))
				}
				if empty(i, j-1, k) {
					tris = appendQuad(tris, [3]float32{0, -1, 0},
						vtx(x0, y0, z0), vtx(x1, y0, z0), vtx(x1, y0, z1), vtx(x0, y0, z1))
				}
				if empty(i, j, k+1) {
					tris = appendQuad(tris, [3]float32{0, 0, 1},
						vtx(x0, y0, z1), vtx(x1, y0, z1), vtx(x1, y1, z1), vtx(x0, y1, z1))
				}
				if empty(i, j, k-1) {
					tris = appendQuad(tris, [3]float32{0, 0, -1},
						vtx(x0, y0, z0), vtx(x0, y1, z0), vtx(x1, y1, z0), vtx(x1, y0, z0))
				}
			}
		}
	}

	if len(tris) == 0 {
		return nil, errors.NewExport("solid contains no material at the export resolution")
	}
	return tris, nil
}

func vtx(x, y, z float64) [3]float32 {
	return [3]float32{float32(x), float32(y), float32(z)}
}

func appendQuad(tris []triangle, n [3]float32, a, b, c, d [3]float32) []triangle {
	return append(tris,
		triangle{n: n, a: a, b: b, c: c},
		triangle{n: n, a: a, b: c, c: d})
}

// writeSTL writes the mesh in binary STL: an 80-byte header, the facet
// count, then 50 bytes per facet.
func writeSTL(w io.Writer, tris []triangle) error {
	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], "shellsmith binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}

	for _, t := range tris {
		if err := binary.Write(bw, binary.LittleEndian, t.n); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, t.a); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, t.b); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, t.c); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}

	return bw.Flush()
}
