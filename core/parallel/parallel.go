// Package parallel provides helpers for splitting row-oriented work
// across CPU cores. Preprocessing transforms use them to slice matrix
// rows into contiguous chunks, one goroutine per chunk.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items contiguous indices into at most GOMAXPROCS
// chunks and invokes fn(start, end) for each chunk on its own goroutine.
// It returns after every chunk has been processed. fn must be safe to
// run concurrently against disjoint ranges.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > items {
		workers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine
// when items does not exceed threshold, and falls back to Parallelize
// otherwise. Small inputs stay sequential so goroutine startup cost
// never dominates the row loop.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
