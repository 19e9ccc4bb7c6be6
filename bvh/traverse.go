package bvh

import (
	"github.com/rdpeck/bvhgo/container"
	"github.com/rdpeck/bvhgo/geom"
)

// RangeOverlap visits, in unspecified order, every primitive whose box
// overlaps region (spec.md §4.6). The traversal stack is sized to the
// tree's full node count so it can never overflow regardless of tree shape.
func (b *BVH) RangeOverlap(region geom.Box, visit func(primitiveIndex int)) {
	stack := container.NewStack[int](b.NumNodes())
	stack.Push(b.Root)
	for !stack.Empty() {
		node := stack.Pop()
		if !geom.Overlap(b.Box(node), region) {
			continue
		}
		if b.IsLeaf(node) {
			visit(b.Leaves[node].PrimitiveIndex)
			continue
		}
		left, right := b.Children(node)
		stack.Push(left)
		stack.Push(right)
	}
}

// Nearest visits the k primitives closest to point, ordered nearest first
// (spec.md §4.6). It is a depth-first branch-and-bound search over an
// explicit stack, not a best-first search ordered by a priority queue, using
// a bounded max-heap to track the current k best candidates: a node is
// pruned once its lower-bound distance can no longer beat the current
// worst of the k best, and children are pushed farther-first so the nearer
// child is explored first, sharpening the bound early. A subtree whose
// lower bound exactly ties the current worst is never pruned: it may still
// hold a leaf that wins the (distance, then smaller primitive index)
// tie-break container.Less enforces, so the replace decision below must be
// given the chance to see it.
//
// Nearest returns an InvalidPredicate error if k <= 0. Requesting more
// neighbors than the tree holds primitives is not an error: fewer than k
// results are visited (spec.md §4.6's "k greater than N" edge case).
func (b *BVH) Nearest(point geom.Point, k int, visit func(primitiveIndex int, distanceSq float64)) error {
	if k <= 0 {
		return invalidPredicateError("k must be positive")
	}

	heap := container.NewMaxHeap(k)
	stack := container.NewStack[int](b.NumNodes())
	stack.Push(b.Root)

	for !stack.Empty() {
		node := stack.Pop()
		boxDistSq := geom.DistanceSquaredToBox(point, b.Box(node))
		if heap.Full() && boxDistSq > heap.Top().DistanceSq {
			continue
		}

		if b.IsLeaf(node) {
			item := container.HeapItem{PrimitiveIndex: b.Leaves[node].PrimitiveIndex, DistanceSq: boxDistSq}
			if !heap.Full() {
				heap.Push(item)
			} else if container.Less(item, heap.Top()) {
				heap.ReplaceTop(item)
			}
			continue
		}

		left, right := b.Children(node)
		leftDistSq := geom.DistanceSquaredToBox(point, b.Box(left))
		rightDistSq := geom.DistanceSquaredToBox(point, b.Box(right))
		if leftDistSq > rightDistSq {
			stack.Push(left)
			stack.Push(right)
		} else {
			stack.Push(right)
			stack.Push(left)
		}
	}

	for _, item := range heap.DrainAscending() {
		visit(item.PrimitiveIndex, item.DistanceSq)
	}
	return nil
}
