package bvh

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Kind enumerates the error categories spec.md §7 requires Build and Query
// to distinguish, surfaced through errors.Type the same way hagall's
// hwebsocket error sentinels are: callers compare errors.Type(err) against
// one of these constants rather than string-matching the message.
type Kind string

const (
	// KindInvalidGeometry: a primitive's box is empty/invalid (Min[i] >
	// Max[i] on some axis) when it was expected to be valid.
	KindInvalidGeometry Kind = "invalid_geometry"
	// KindEmpty: Build was called with zero primitives.
	KindEmpty Kind = "empty"
	// KindInvalidPredicate: a predicate's parameters are malformed (a
	// NearestPredicate with k <= 0).
	KindInvalidPredicate Kind = "invalid_predicate"
	// KindOverflow: a bounded container would need to exceed its fixed
	// capacity to complete an operation.
	KindOverflow Kind = "overflow"
	// KindAdapterMisuse: the caller's access.Accessor does not satisfy the
	// facade's contract; see package access.
	KindAdapterMisuse Kind = "adapter_misuse"
)

// ErrEmpty is returned by Build when called with zero primitives, per the
// empty-input Build resolution in SPEC_FULL.md §6: an empty input
// is an error, not a trivially-empty tree.
var ErrEmpty = errors.New("bvh: cannot build a hierarchy over zero primitives").WithType(string(KindEmpty))

func invalidGeometryError(index int, box string) error {
	return errors.New("bvh: primitive has an invalid bounding box").
		WithType(string(KindInvalidGeometry)).
		WithTag("index", index).
		WithTag("box", box)
}

func invalidPredicateError(detail string) error {
	return errors.New(fmt.Sprintf("bvh: invalid predicate: %s", detail)).
		WithType(string(KindInvalidPredicate))
}
