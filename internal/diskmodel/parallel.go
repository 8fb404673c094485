package diskmodel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest batch worth handing to its own goroutine.
const minChunk = 256

// parallelFor splits [0, n) into contiguous chunks and runs fn on each. The
// first error cancels ctx for the remaining chunks, which should poll it
// between elements, and is returned unchanged.
func parallelFor(n int, fn func(ctx context.Context, start, end int) error) error {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		return fn(context.Background(), 0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		g.Go(func() error {
			return fn(ctx, start, end)
		})
	}
	return g.Wait()
}
