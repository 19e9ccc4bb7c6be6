package bvh

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rdpeck/bvhgo/access"
	"github.com/rdpeck/bvhgo/bvhbackend"
	"github.com/rdpeck/bvhgo/geom"
	"github.com/rdpeck/bvhgo/internal/logging"
	"github.com/rdpeck/bvhgo/morton"
	"github.com/rdpeck/bvhgo/sortperm"
)

// BuildOption configures Build. The zero value of every option is the
// library's default, so callers that only need the algorithm can omit
// options entirely.
type BuildOption func(*buildConfig)

type buildConfig struct {
	logger logging.Logger
}

// WithLogger injects a Logger that Build logs tree statistics through at
// Debug level. Build is silent by default.
func WithLogger(l logging.Logger) BuildOption {
	return func(c *buildConfig) { c.logger = l }
}

// Build constructs a bounding volume hierarchy over primitives using the
// LBVH/Karras algorithm (spec.md §4.4-§4.5): Morton-sort the primitives'
// centroids inside the scene box, then grow internal nodes top-down from the
// common-prefix structure of the sorted keys, then refit every box
// bottom-up in parallel using atomic arrival counters.
//
// Build returns ErrEmpty if primitives.Size() == 0.
func Build(primitives access.Accessor[geom.Box], backend bvhbackend.Backend, opts ...BuildOption) (*BVH, error) {
	cfg := buildConfig{logger: logging.Noop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := primitives.Size()
	if n == 0 {
		return nil, ErrEmpty
	}

	start := time.Now()

	boxes := make([]geom.Box, n)
	for i := 0; i < n; i++ {
		boxes[i] = primitives.Get(i)
	}
	for i, b := range boxes {
		if b.IsEmpty() {
			return nil, invalidGeometryError(i, fmt.Sprintf("min=%v max=%v", b.Min, b.Max))
		}
	}

	dim := boxes[0].Dim()
	sceneBox := geom.EmptyBox(dim)
	for _, b := range boxes {
		sceneBox = geom.Union(sceneBox, b)
	}

	mortonKeys := make([]uint64, n)
	backend.ParallelFor(n, func(i int) {
		mortonKeys[i] = morton.Encode64(sceneBox, geom.Centroid(boxes[i]))
	})
	backend.Fence()

	sorted := sortperm.SortByKey(n, func(i int) uint64 { return mortonKeys[i] })
	sortedKeys := sortperm.Keys(sorted)
	sortedIndices := sortperm.Indices(sorted)

	tree := &BVH{
		Dim:           dim,
		NumPrimitives: n,
		Leaves:        make([]LeafNode, n),
		BuildID:       uuid.NewString(),
		parent:        make([]int, 2*n-1),
	}
	if n == 1 {
		tree.Leaves[0] = LeafNode{Box: boxes[sortedIndices[0]], PrimitiveIndex: sortedIndices[0]}
		tree.Root = 0
		tree.parent[0] = -1
		cfg.logger.Debugf("bvh[%s]: built single-leaf tree over %d primitive", tree.BuildID, n)
		buildsTotal.Inc()
		buildDuration.Observe(time.Since(start).Seconds())
		return tree, nil
	}

	tree.Internal = make([]InternalNode, n-1)
	backend.ParallelFor(n, func(i int) {
		tree.Leaves[i] = LeafNode{Box: boxes[sortedIndices[i]], PrimitiveIndex: sortedIndices[i]}
	})

	backend.ParallelFor(n-1, func(i int) {
		first, last := determineRange(sortedKeys, n, i)
		split := findSplit(sortedKeys, first, last)

		var left, right int
		if split == first {
			left = split
		} else {
			left = n + split
		}
		if split+1 == last {
			right = split + 1
		} else {
			right = n + split + 1
		}

		tree.Internal[i] = InternalNode{Left: left, Right: right}
		tree.parent[left] = n + i
		tree.parent[right] = n + i
	})
	tree.parent[n] = -1
	tree.Root = n

	arrived := make([]int32, n-1)
	backend.ParallelFor(n, func(i int) {
		node := tree.parent[i]
		for node != -1 {
			local := node - n
			if atomic.AddInt32(&arrived[local], 1) == 1 {
				return
			}
			left, right := tree.Internal[local].Left, tree.Internal[local].Right
			tree.Internal[local].Box = geom.Union(tree.Box(left), tree.Box(right))
			node = tree.parent[node]
		}
	})
	backend.Fence()

	cfg.logger.Debugf("bvh[%s]: built tree over %d primitives, %d internal nodes, root=%d", tree.BuildID, n, n-1, tree.Root)
	buildsTotal.Inc()
	buildDuration.Observe(time.Since(start).Seconds())
	return tree, nil
}

// delta returns the length of the common binary prefix shared by
// sortedKeys[i] and sortedKeys[j], extended with an index-based tie-break
// (guaranteed to strictly exceed 64, the maximum key-based prefix length) so
// the range/split computation below stays well-defined even when primitives
// share an identical Morton key (spec.md §4.4's "duplicate coordinates" edge
// case). Returns -1 if j is out of [0, n).
func delta(sortedKeys []uint64, n, i, j int) int {
	if j < 0 || j >= n {
		return -1
	}
	if sortedKeys[i] != sortedKeys[j] {
		return morton.CommonPrefixLen64(sortedKeys[i], sortedKeys[j])
	}
	return 64 + bits.LeadingZeros64(uint64(i)^uint64(j))
}

// determineRange computes the index range [first, last] (inclusive) of
// leaves covered by the internal node conventionally associated with
// position i in the sorted order, following Karras (2012) §4: grow
// outwards from i in the direction of increasing common-prefix length,
// doubling then binary-searching for the exact extent.
func determineRange(sortedKeys []uint64, n, i int) (first, last int) {
	d := 1
	if delta(sortedKeys, n, i, i-1) > delta(sortedKeys, n, i, i+1) {
		d = -1
	}

	deltaMin := delta(sortedKeys, n, i, i-d)

	lMax := 2
	for delta(sortedKeys, n, i, i+lMax*d) > deltaMin {
		lMax *= 2
	}

	l := 0
	for t := lMax / 2; t >= 1; t /= 2 {
		if delta(sortedKeys, n, i, i+(l+t)*d) > deltaMin {
			l += t
		}
	}
	j := i + l*d

	if d == 1 {
		return i, j
	}
	return j, i
}

// findSplit locates the position within [first, last) where the common
// prefix of the range's two halves drops, the point the range is divided
// at per Karras (2012) §4.
func findSplit(sortedKeys []uint64, first, last int) int {
	n := len(sortedKeys)
	commonPrefix := delta(sortedKeys, n, first, last)

	split := first
	step := last - first
	for {
		step = (step + 1) / 2
		newSplit := split + step
		if newSplit < last {
			if delta(sortedKeys, n, first, newSplit) > commonPrefix {
				split = newSplit
			}
		}
		if step <= 1 {
			break
		}
	}
	return split
}
