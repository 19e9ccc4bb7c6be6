package bvhbackend

import (
	"sync/atomic"
	"testing"
)

func TestSerialParallelForVisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	seen := make([]int32, n)
	Serial{}.ParallelFor(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestThreadedParallelForVisitsEveryIndexOnce(t *testing.T) {
	const n = 10000
	seen := make([]int32, n)
	Threaded{Workers: 8}.ParallelFor(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func exclusiveScanReference(counts []int64) []int64 {
	out := make([]int64, len(counts)+1)
	var running int64
	for i, c := range counts {
		out[i] = running
		running += c
	}
	out[len(counts)] = running
	return out
}

func testBackendParallelScan(t *testing.T, backend Backend) {
	counts := []int64{2, 0, 5, 3, 1, 0, 7, 4, 2, 6}
	n := len(counts) + 1
	offsets := make([]int64, n)

	backend.ParallelScan(n, func(i int, update *int64, final bool) {
		var v int64
		if i < len(counts) {
			v = counts[i]
		}
		if final {
			offsets[i] = *update
		}
		*update += v
	})

	want := exclusiveScanReference(counts)
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offsets[%d] = %d, want %d (full: got=%v want=%v)", i, offsets[i], want[i], offsets, want)
		}
	}
}

func TestSerialParallelScan(t *testing.T) {
	testBackendParallelScan(t, Serial{})
}

func TestThreadedParallelScan(t *testing.T) {
	testBackendParallelScan(t, Threaded{Workers: 4})
}
