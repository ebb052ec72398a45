package compute

import (
	"runtime"
	"sync"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Dispatch(n int, fn func(idx int)) {
	if n < 16 || c.workers < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := c.workers
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}
