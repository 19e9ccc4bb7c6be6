package bvh

import (
	"sort"
	"testing"

	"github.com/rdpeck/bvhgo/access"
	"github.com/rdpeck/bvhgo/bvhbackend"
	"github.com/rdpeck/bvhgo/geom"
)

func TestRangeOverlapFindsAllPointsWithinRadius(t *testing.T) {
	// An 11x11x11 structured grid, matching the scenario bvh_driver.cpp's
	// make_structured_cloud/radius-search example exercises.
	tree, points := buildGrid(t, bvhbackend.Serial{}, 11, 11, 11)

	center := geom.NewPoint(5, 5, 5)
	radius := 1.5
	query := geom.NewBox(
		geom.NewPoint(center[0]-radius, center[1]-radius, center[2]-radius),
		geom.NewPoint(center[0]+radius, center[1]+radius, center[2]+radius),
	)

	var want []int
	for i, p := range points {
		if geom.Overlap(query, geom.BoxFromPoint(p)) {
			want = append(want, i)
		}
	}

	var got []int
	tree.RangeOverlap(query, func(primitiveIndex int) {
		got = append(got, primitiveIndex)
	})

	sort.Ints(want)
	sort.Ints(got)
	if len(got) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("match set differs: want %v got %v", want, got)
		}
	}
}

func TestRangeOverlapEmptyRegionFindsNothing(t *testing.T) {
	tree, _ := buildGrid(t, bvhbackend.Serial{}, 5, 5, 5)
	region := geom.NewBox(geom.NewPoint(100, 100, 100), geom.NewPoint(101, 101, 101))
	var got []int
	tree.RangeOverlap(region, func(i int) { got = append(got, i) })
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestNearestReturnsKClosestInAscendingOrder(t *testing.T) {
	tree, points := buildGrid(t, bvhbackend.Serial{}, 10, 10, 10)
	query := geom.NewPoint(3.2, 3.2, 3.2)

	type result struct {
		index int
		distSq float64
	}
	var all []result
	for i, p := range points {
		all = append(all, result{i, geom.DistanceSquared(query, p)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].distSq != all[j].distSq {
			return all[i].distSq < all[j].distSq
		}
		return all[i].index < all[j].index
	})

	const k = 7
	var got []result
	err := tree.Nearest(query, k, func(primitiveIndex int, distSq float64) {
		got = append(got, result{primitiveIndex, distSq})
	})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(got) != k {
		t.Fatalf("expected %d results, got %d", k, len(got))
	}
	for i := 0; i < k; i++ {
		if got[i].distSq != all[i].distSq {
			t.Fatalf("position %d: expected distSq %v, got %v", i, all[i].distSq, got[i].distSq)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].distSq < got[i-1].distSq {
			t.Fatalf("results not in ascending order: %v", got)
		}
	}
}

func TestNearestKGreaterThanNReturnsAllPrimitives(t *testing.T) {
	tree, points := buildGrid(t, bvhbackend.Serial{}, 2, 2, 2)
	n := len(points)
	var got []int
	err := tree.Nearest(geom.NewPoint(0, 0, 0), n+10, func(primitiveIndex int, _ float64) {
		got = append(got, primitiveIndex)
	})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(got) != n {
		t.Fatalf("expected all %d primitives, got %d", n, len(got))
	}
}

func TestNearestRejectsNonPositiveK(t *testing.T) {
	tree, _ := buildGrid(t, bvhbackend.Serial{}, 2, 2, 2)
	if err := tree.Nearest(geom.NewPoint(0, 0, 0), 0, func(int, float64) {}); err == nil {
		t.Fatalf("expected an error for k=0")
	}
}

func TestNearestDuplicateCoordinatesBreaksTiesBySmallerIndex(t *testing.T) {
	// spec.md §8 scenario 3: N = 8 primitives all at the same point; nearest
	// to a point equidistant from all of them must return the three smallest
	// indices, not whichever three the traversal happens to reach first.
	p := geom.NewPoint(0, 0, 0)
	boxes := pointBoxes([]geom.Point{p, p, p, p, p, p, p, p})
	tree, err := Build(access.NewSliceAccessor(boxes), bvhbackend.Serial{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var got []int
	if err := tree.Nearest(geom.NewPoint(1, 0, 0), 3, func(primitiveIndex int, _ float64) {
		got = append(got, primitiveIndex)
	}); err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	sort.Ints(got)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// TestNearestTieBreakSurvivesVisitingTheWorseIndexFirst is a direct
// regression test for the traversal's tie-break: two primitives sit at
// exactly the same distance from the query point, and the tree/traversal
// order is arranged (by construction order, not query geometry) so the
// larger-index primitive is visited before the smaller-index one. A correct
// Nearest(..., k=1) must still keep the smaller index.
func TestNearestTieBreakSurvivesVisitingTheWorseIndexFirst(t *testing.T) {
	// Primitive 0 sits at x=2, primitive 1 sits at x=0: original index 0's
	// Morton key sorts after index 1's, so the traversal (which descends
	// into the box-nearer child first, and both children tie in box
	// distance here) visits the leaf holding index 1 before the leaf
	// holding index 0.
	far := geom.NewPoint(2, 0, 0)
	near := geom.NewPoint(0, 0, 0)
	boxes := []geom.Box{geom.BoxFromPoint(far), geom.BoxFromPoint(near)}
	tree, err := Build(access.NewSliceAccessor(boxes), bvhbackend.Serial{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	query := geom.NewPoint(1, 0, 0) // equidistant (distSq = 1) from both primitives
	var got []int
	if err := tree.Nearest(query, 1, func(primitiveIndex int, _ float64) {
		got = append(got, primitiveIndex)
	}); err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected the smaller tied index 0 to win, got %v", got)
	}
}
