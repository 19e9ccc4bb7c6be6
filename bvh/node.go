package bvh

import "github.com/rdpeck/bvhgo/geom"

// LeafNode is a hierarchy leaf: a primitive's bounding box together with the
// original (pre-sort) index of that primitive, so query results can be
// reported in terms of the caller's own indexing.
type LeafNode struct {
	Box            geom.Box
	PrimitiveIndex int
}

// InternalNode is an internal hierarchy node: its bounding box (the union of
// everything beneath it) and two child references. Left and Right are
// combined-array indices per the root-addressing convention documented in
// SPEC_FULL.md §6: an index < NumPrimitives names a leaf, an index >=
// NumPrimitives names an internal node (subtract NumPrimitives to get its
// position in Internal). No separate tag is stored because the boundary
// itself carries the category.
type InternalNode struct {
	Box   geom.Box
	Left  int
	Right int
}

// BVH is the constructed hierarchy: NumPrimitives leaves at combined indices
// [0, NumPrimitives), NumPrimitives-1 internal nodes at combined indices
// [NumPrimitives, 2*NumPrimitives-1), and Root naming the entry point (the
// classic Karras convention: internal node 0, i.e. combined index
// NumPrimitives, unless there is exactly one primitive, in which case the
// single leaf at index 0 is the root).
type BVH struct {
	Dim           int
	NumPrimitives int
	Leaves        []LeafNode
	Internal      []InternalNode
	Root          int
	// BuildID identifies this construction in log lines, useful for
	// correlating builds when several drivers run concurrently.
	BuildID string
	parent  []int // combined index -> parent's combined index, -1 for the root
}

// IsLeaf reports whether combined index i names a leaf node.
func (b *BVH) IsLeaf(i int) bool {
	return i < b.NumPrimitives
}

// Box returns the bounding box of the node at combined index i.
func (b *BVH) Box(i int) geom.Box {
	if b.IsLeaf(i) {
		return b.Leaves[i].Box
	}
	return b.Internal[i-b.NumPrimitives].Box
}

// Children returns the combined indices of the two children of the internal
// node at combined index i. It panics if i names a leaf.
func (b *BVH) Children(i int) (left, right int) {
	n := b.Internal[i-b.NumPrimitives]
	return n.Left, n.Right
}

// NumNodes returns the total node count, leaves plus internal nodes.
func (b *BVH) NumNodes() int {
	return len(b.Leaves) + len(b.Internal)
}
