// Package cloud generates the synthetic point clouds the bvh-driver example
// exercises the hierarchy against, ported from
// original_source/examples/bvh_driver/bvh_driver.cpp's
// make_stuctured_cloud/make_random_cloud.
package cloud

import (
	"math/rand"

	"github.com/rdpeck/bvhgo/geom"
)

// Structured returns an nx*ny*nz regular grid of points spanning
// [0, lx] x [0, ly] x [0, lz], the scenario spec.md's 11x11x11 radius-search
// example and the driver's default mode both use.
func Structured(lx, ly, lz float64, nx, ny, nz int) []geom.Point {
	points := make([]geom.Point, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				x := axisCoord(i, nx, lx)
				y := axisCoord(j, ny, ly)
				z := axisCoord(k, nz, lz)
				points = append(points, geom.NewPoint(x, y, z))
			}
		}
	}
	return points
}

func axisCoord(i, n int, extent float64) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) * extent / float64(n-1)
}

// Random returns n points drawn uniformly from [0, lx] x [0, ly] x [0, lz],
// using rng so callers can make a driver run reproducible (spec.md §9's
// Open Question: the driver exposes --seed rather than using an
// unseeded/default-constructed generator).
func Random(lx, ly, lz float64, n int, rng *rand.Rand) []geom.Point {
	points := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		points[i] = geom.NewPoint(rng.Float64()*lx, rng.Float64()*ly, rng.Float64()*lz)
	}
	return points
}
