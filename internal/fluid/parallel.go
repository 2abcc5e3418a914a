package fluid

import "sync"

// parallelFor executes fn over contiguous chunks of [0, n) on up to workers
// goroutines. fn receives the worker index so callers can own per-worker
// scratch state. Ranges smaller than minChunk run inline; the call returns
// only after every chunk finished, so it acts as a barrier between pipeline
// stages.
func parallelFor(n, minChunk, workers int, fn func(worker, start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if start > n {
			start = n
		}
		if end > n {
			end = n
		}

		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(w, start, end)
	}

	wg.Wait()
}
