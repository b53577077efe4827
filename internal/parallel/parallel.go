// Package parallel provides chunked parallel execution for independent
// work items.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // whether parallel execution is enabled
	NumWorkers   int  // number of worker goroutines
	MinChunkSize int  // minimum items per goroutine to avoid overhead
}

// DefaultConfig returns defaults based on CPU count, tuned for fine-grained
// work like per-element kernels.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// PerRun returns a config for coarse work where every item is expensive,
// such as independent optimization runs: one item per chunk, capped at n
// concurrent workers.
func PerRun(n int) Config {
	workers := min(n, runtime.NumCPU())
	return Config{
		Enabled:      workers > 1,
		NumWorkers:   workers,
		MinChunkSize: 1,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism. Falls back
// to sequential execution if parallelism is disabled or n is below the
// chunk size. f must be safe to call concurrently.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
