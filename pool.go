package tachyon

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps automatic sizing; publishing is bounded by disk
	// and image decoding well before this.
	MaxPoolSize = 16
)

// ResolvePoolSize determines the number of publishing workers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// runPool calls fn for every index in [0, n) on at most size goroutines
// and waits for all of them. Indexes not started before ctx is cancelled
// are handed to skip instead.
func runPool(ctx context.Context, size, n int, fn func(ctx context.Context, idx int), skip func(idx int, err error)) {
	if n == 0 {
		return
	}
	if size > n {
		size = n
	}
	if size < MinPoolSize {
		size = MinPoolSize
	}

	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					skip(idx, err)
					continue
				}
				fn(ctx, idx)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
