package container

// HeapItem is a single candidate in a k-nearest search: the primitive index
// and its squared distance to the query point.
type HeapItem struct {
	PrimitiveIndex int
	DistanceSq     float64
}

// less orders items the way spec.md requires: larger distance first (so the
// heap's top is the worst of the current best-k), ties broken by the
// smaller primitive index taking priority — i.e. on a tie the larger
// primitive index is considered "worse" and bubbles toward the top.
func less(a, b HeapItem) bool {
	if a.DistanceSq != b.DistanceSq {
		return a.DistanceSq < b.DistanceSq
	}
	return a.PrimitiveIndex < b.PrimitiveIndex
}

// Less reports whether a ranks strictly better than b under the same
// (distance ascending, then primitive index ascending) order the heap
// enforces internally. Callers outside this package that need to decide
// whether a fresh candidate should displace the heap's current worst item
// must use this instead of comparing DistanceSq directly, or they'll miss
// the index tie-break.
func Less(a, b HeapItem) bool {
	return less(a, b)
}

// MaxHeap is a bounded-capacity binary max-heap of HeapItem ordered so the
// top is always the current worst (farthest, or farthest-and-largest-index
// on a tie) of the best-k candidates seen so far. It backs the k-nearest
// traversal's "keep only the k best" step from spec.md §4.6.
type MaxHeap struct {
	data []HeapItem
}

// NewMaxHeap allocates a MaxHeap with room for capacity elements.
func NewMaxHeap(capacity int) *MaxHeap {
	return &MaxHeap{data: make([]HeapItem, 0, capacity)}
}

// Size returns the number of items currently in the heap.
func (h *MaxHeap) Size() int {
	return len(h.data)
}

// Empty reports whether the heap holds no elements.
func (h *MaxHeap) Empty() bool {
	return len(h.data) == 0
}

// Full reports whether the heap has reached its capacity.
func (h *MaxHeap) Full() bool {
	return len(h.data) == cap(h.data)
}

// Top returns the worst (largest-distance) item without removing it. It
// panics if the heap is empty.
func (h *MaxHeap) Top() HeapItem {
	if len(h.data) == 0 {
		panic("container: top of empty max-heap")
	}
	return h.data[0]
}

// Push inserts item, maintaining the heap invariant. It panics if the heap
// is already at capacity — callers performing bounded k-nearest selection
// should check Full and call ReplaceTop instead once the heap has k items.
func (h *MaxHeap) Push(item HeapItem) {
	if len(h.data) == cap(h.data) {
		panic("container: max-heap overflow")
	}
	h.data = append(h.data, item)
	h.siftUp(len(h.data) - 1)
}

// ReplaceTop evicts the current worst item and inserts item in its place,
// maintaining the heap invariant. It panics if the heap is empty.
func (h *MaxHeap) ReplaceTop(item HeapItem) {
	if len(h.data) == 0 {
		panic("container: replace top of empty max-heap")
	}
	h.data[0] = item
	h.siftDown(0)
}

// Clear empties the heap without releasing its backing storage.
func (h *MaxHeap) Clear() {
	h.data = h.data[:0]
}

// Items returns the heap's backing slice in heap order (not sorted). The
// slice is owned by the heap and must not be retained past the next mutating
// call.
func (h *MaxHeap) Items() []HeapItem {
	return h.data
}

// DrainAscending removes every item from the heap and returns them ordered
// from nearest to farthest, as spec.md §4.6 requires for k-nearest output.
func (h *MaxHeap) DrainAscending() []HeapItem {
	n := len(h.data)
	out := make([]HeapItem, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = h.data[0]
		h.data[0] = h.data[len(h.data)-1]
		h.data = h.data[:len(h.data)-1]
		if len(h.data) > 0 {
			h.siftDown(0)
		}
	}
	return out
}

func (h *MaxHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.data[parent], h.data[i]) {
			break
		}
		h.data[parent], h.data[i] = h.data[i], h.data[parent]
		i = parent
	}
}

func (h *MaxHeap) siftDown(i int) {
	n := len(h.data)
	for {
		left := 2*i + 1
		right := 2*i + 2
		largest := i
		if left < n && less(h.data[largest], h.data[left]) {
			largest = left
		}
		if right < n && less(h.data[largest], h.data[right]) {
			largest = right
		}
		if largest == i {
			break
		}
		h.data[i], h.data[largest] = h.data[largest], h.data[i]
		i = largest
	}
}
