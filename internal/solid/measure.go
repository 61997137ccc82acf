package solid

import "math"

// Measurement is deterministic grid sampling: cells of roughly res spacing
// are laid over a region and membership is tested at every cell center.
// The same region and resolution always produce the same answer, so
// measured comparisons (the split round-trip law, idempotence) are stable.

// Volume measures the solid over its own bounds at the given resolution.
func Volume(s Solid, res float64) float64 {
	return VolumeInBox(s, s.Bounds(), res)
}

// VolumeInBox measures the solid within region. Comparing several solids
// over one shared region uses identical sample points for each, so
// set-partition identities hold exactly on the samples.
func VolumeInBox(s Solid, region Box, res float64) float64 {
	nx, ny, nz, cx, cy, cz := gridDims(region, res)
	if nx == 0 {
		return 0
	}

	cellVol := cx * cy * cz
	count := 0
	for i := 0; i < nx; i++ {
		x := region.Min.X + (float64(i)+0.5)*cx
		for j := 0; j < ny; j++ {
			y := region.Min.Y + (float64(j)+0.5)*cy
			for k := 0; k < nz; k++ {
				z := region.Min.Z + (float64(k)+0.5)*cz
				if s.Contains(Vec{x, y, z}) {
					count++
				}
			}
		}
	}
	return float64(count) * cellVol
}

// AnyInside reports whether any sample point of region lies inside s.
// Used by the cutout engine to detect subtractions with no effect.
func AnyInside(s Solid, region Box, res float64) bool {
	nx, ny, nz, cx, cy, cz := gridDims(region, res)
	if nx == 0 {
		return false
	}
	for i := 0; i < nx; i++ {
		x := region.Min.X + (float64(i)+0.5)*cx
		for j := 0; j < ny; j++ {
			y := region.Min.Y + (float64(j)+0.5)*cy
			for k := 0; k < nz; k++ {
				z := region.Min.Z + (float64(k)+0.5)*cz
				if s.Contains(Vec{x, y, z}) {
					return true
				}
			}
		}
	}
	return false
}

// gridDims splits region into cells no larger than res per axis.
func gridDims(region Box, res float64) (nx, ny, nz int, cx, cy, cz float64) {
	size := region.Size()
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 || res <= 0 {
		return 0, 0, 0, 0, 0, 0
	}
	nx = int(math.Ceil(size.X / res))
	ny = int(math.Ceil(size.Y / res))
	nz = int(math.Ceil(size.Z / res))
	cx = size.X / float64(nx)
	cy = size.Y / float64(ny)
	cz = size.Z / float64(nz)
	return
}
