// Package bvhbackend is the capability abstraction over a parallel backend
// spec.md §9 calls for in place of the original's template-over-execution-
// space polymorphism: parallel_for, parallel_scan and an explicit fence
// between phases. The concurrency pattern (a fixed worker pool draining a
// shared range of work, synchronized with sync.WaitGroup) is the one the
// teacher repo's renderer.WorkerPool uses for tile rendering, generalized
// here from tiles to arbitrary index ranges.
package bvhbackend

import (
	"runtime"
	"sync"
)

// Backend executes the index-range parallelism the hierarchy builder and
// batched query driver need, plus a Fence that blocks until all outstanding
// work submitted through it has completed. Implementations are free to run
// work on a single goroutine, a worker pool, or (not provided here, but
// accommodated by the interface) an offload device.
type Backend interface {
	// Name identifies the backend, surfaced on the CLI driver's --node flag
	// and in log lines.
	Name() string
	// ParallelFor invokes body(i) once for every i in [0, n), with no
	// ordering guarantee across i and no guarantee two calls don't run
	// concurrently.
	ParallelFor(n int, body func(i int))
	// ParallelScan computes an exclusive prefix sum over [0, n): body is
	// invoked exactly once per index with final=true, receiving the exclusive
	// prefix in *update, as in Kokkos' parallel_scan and as bvh_driver.cpp's
	// query() relies on. A backend may also invoke body with final=false
	// beforehand to accumulate partial totals (Threaded does; Serial does
	// not), so body must only write its output when final is true.
	ParallelScan(n int, body func(i int, update *int64, final bool))
	// Fence blocks until every ParallelFor/ParallelScan call issued on this
	// backend so far has completed. Phase boundaries in the batched query
	// driver (count -> scan -> allocate -> fill) are fences.
	Fence()
}

// Serial runs everything on the calling goroutine. It is the reference
// implementation every other backend's output is checked against.
type Serial struct{}

// Name implements Backend.
func (Serial) Name() string { return "serial" }

// ParallelFor implements Backend.
func (Serial) ParallelFor(n int, body func(i int)) {
	for i := 0; i < n; i++ {
		body(i)
	}
}

// ParallelScan implements Backend.
func (Serial) ParallelScan(n int, body func(i int, update *int64, final bool)) {
	var update int64
	for i := 0; i < n; i++ {
		body(i, &update, true)
	}
}

// Fence implements Backend. Serial has no outstanding work to wait for.
func (Serial) Fence() {}

// Threaded spreads ParallelFor/ParallelScan work across a fixed pool of
// goroutines, sized to Workers (or runtime.NumCPU() if Workers <= 0). Each
// call blocks until its own work completes, so Fence is a no-op — there is
// never work in flight across calls — mirroring how the teacher's
// WorkerPool.Stop() drains its task queue before returning.
type Threaded struct {
	Workers int
}

// Name implements Backend.
func (t Threaded) Name() string { return "parallel" }

func (t Threaded) workers() int {
	if t.Workers > 0 {
		return t.Workers
	}
	return runtime.NumCPU()
}

// ParallelFor implements Backend by partitioning [0, n) into contiguous
// chunks, one per worker goroutine.
func (t Threaded) ParallelFor(n int, body func(i int)) {
	if n <= 0 {
		return
	}
	workers := t.workers()
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				body(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ParallelScan implements Backend with the standard two-pass blocked scan:
// each worker computes its chunk's local exclusive scan and total in the
// first pass, the chunk totals are exclusive-scanned serially (negligible
// cost versus n), and the second pass re-runs each chunk's body with its
// chunk offset added in, calling body with final=true exactly once per
// index as Kokkos' parallel_scan contract requires.
func (t Threaded) ParallelScan(n int, body func(i int, update *int64, final bool)) {
	if n <= 0 {
		return
	}
	workers := t.workers()
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	chunkTotal := make([]int64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			chunkTotal[w] = 0
			continue
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var update int64
			for i := start; i < end; i++ {
				body(i, &update, false)
			}
			chunkTotal[w] = update
		}(w, start, end)
	}
	wg.Wait()

	chunkOffset := make([]int64, workers)
	var running int64
	for w := 0; w < workers; w++ {
		chunkOffset[w] = running
		running += chunkTotal[w]
	}

	wg = sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			continue
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int, base int64) {
			defer wg.Done()
			update := base
			for i := start; i < end; i++ {
				body(i, &update, true)
			}
		}(start, end, chunkOffset[w])
	}
	wg.Wait()
}

// Fence implements Backend. Threaded's ParallelFor/ParallelScan already
// block until their own work finishes, so there is nothing left to wait on.
func (t Threaded) Fence() {}
