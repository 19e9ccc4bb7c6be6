package bvh

import (
	"strconv"

	"github.com/rdpeck/bvhgo/bvhbackend"
	"github.com/rdpeck/bvhgo/internal/logging"
)

// QueryOption configures Query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	logger logging.Logger
}

// WithQueryLogger injects a Logger that Query logs batch statistics through.
func WithQueryLogger(l logging.Logger) QueryOption {
	return func(c *queryConfig) { c.logger = l }
}

// Results is the compressed-sparse-row (CSR) output of a batched Query:
// predicate i's matches are Indices[Offsets[i]:Offsets[i+1]]. Offsets always
// has len(predicates)+1 entries.
type Results struct {
	Offsets []int
	Indices []int
}

// Query runs every predicate against tree in one batched pass, following
// the two-pass CSR algorithm of original_source/examples/bvh_driver/
// bvh_driver.cpp's query(): a count pass sizes each predicate's result run,
// an exclusive scan turns counts into offsets, and a fill pass writes every
// match exactly once into its predicate's run with no cross-predicate
// synchronization (each predicate's run is disjoint, so the fill pass has
// no data race even though it runs in parallel).
//
// Predicates may mix OverlapPredicate and NearestPredicate freely in the
// same batch.
func Query(tree *BVH, backend bvhbackend.Backend, predicates []Predicate, opts ...QueryOption) (Results, error) {
	cfg := queryConfig{logger: logging.Noop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := len(predicates)
	if q == 0 {
		return Results{Offsets: []int{0}}, nil
	}

	for i, p := range predicates {
		if np, ok := p.(NearestPredicate); ok && np.K <= 0 {
			return Results{}, invalidPredicateError("k must be positive for predicate " + strconv.Itoa(i))
		}
	}

	counts := make([]int64, q)
	backend.ParallelFor(q, func(i int) {
		counts[i] = int64(countMatches(tree, predicates[i]))
	})
	backend.Fence()

	offsets64 := make([]int64, q+1)
	backend.ParallelScan(q+1, func(i int, update *int64, final bool) {
		var v int64
		if i < q {
			v = counts[i]
		}
		if final {
			offsets64[i] = *update
		}
		*update += v
	})

	total := offsets64[q]
	indices := make([]int, total)

	backend.ParallelFor(q, func(i int) {
		pos := offsets64[i]
		appendMatches(tree, predicates[i], func(primitiveIndex int) {
			indices[pos] = primitiveIndex
			pos++
		})
	})
	backend.Fence()

	offsets := make([]int, q+1)
	for i, v := range offsets64 {
		offsets[i] = int(v)
	}

	byKind := map[PredicateKind]int{}
	matchesByKind := map[PredicateKind]int64{}
	for i, p := range predicates {
		byKind[p.Kind()]++
		matchesByKind[p.Kind()] += counts[i]
	}
	for kind, n := range byKind {
		queriesTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
	for kind, n := range matchesByKind {
		queryMatchesTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
	cfg.logger.Debugf("bvh: query batch of %d predicates produced %d matches", q, total)

	return Results{Offsets: offsets, Indices: indices}, nil
}

func countMatches(tree *BVH, p Predicate) int {
	n := 0
	switch pred := p.(type) {
	case OverlapPredicate:
		tree.RangeOverlap(pred.Region, func(int) { n++ })
	case NearestPredicate:
		tree.Nearest(pred.Point, pred.K, func(int, float64) { n++ })
	}
	return n
}

func appendMatches(tree *BVH, p Predicate, emit func(primitiveIndex int)) {
	switch pred := p.(type) {
	case OverlapPredicate:
		tree.RangeOverlap(pred.Region, emit)
	case NearestPredicate:
		tree.Nearest(pred.Point, pred.K, func(primitiveIndex int, _ float64) { emit(primitiveIndex) })
	}
}
