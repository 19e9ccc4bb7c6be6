package bvh

import "github.com/rdpeck/bvhgo/geom"

// PredicateKind names the shape of a query for logging and metrics labels.
type PredicateKind string

const (
	PredicateOverlap PredicateKind = "overlap"
	PredicateNearest PredicateKind = "nearest"
)

// OverlapPredicate selects every primitive whose bounding box overlaps
// Region (spec.md §4.6's range-overlap query).
type OverlapPredicate struct {
	Region geom.Box
}

// Kind implements Predicate.
func (OverlapPredicate) Kind() PredicateKind { return PredicateOverlap }

// NearestPredicate selects the K primitives closest to Point by point-to-box
// distance (spec.md §4.6's k-nearest query).
type NearestPredicate struct {
	Point geom.Point
	K     int
}

// Kind implements Predicate.
func (NearestPredicate) Kind() PredicateKind { return PredicateNearest }

// Predicate is the common shape both query kinds satisfy, letting the
// batched driver (bvh.Query) accept a heterogeneous slice of either.
type Predicate interface {
	Kind() PredicateKind
}
