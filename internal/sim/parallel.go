package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Sweep runs independent simulations concurrently, one per variant. The
// build function is called once per run, so integrators with scratch
// buffers are never shared between goroutines.
type Sweep struct {
	build   func(i int) *Simulator
	numRuns int
}

func NewSweep(numRuns int, build func(i int) *Simulator) *Sweep {
	return &Sweep{build: build, numRuns: numRuns}
}

func (w *Sweep) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, w.numRuns)
	errs := make([]error, w.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < w.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = w.build(idx).Run(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
