package render

import (
	"context"
	"runtime"
	"sync"

	"github.com/inodb/vibe-track/internal/cache"
)

// WorkItem is a region queued for rendering.
type WorkItem struct {
	Seq    int
	Region cache.Region
	Extra  any // caller-specific data (e.g. the output path)
}

// WorkResult holds the rendered image for a single region.
type WorkResult struct {
	Seq    int
	Region cache.Region
	Result *Result
	Err    error
	Extra  any
}

// ParallelRender renders work items using a pool of workers. Each worker
// draws onto its own surfaces.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used. Items received after ctx is
// cancelled are answered with ctx.Err() without rendering.
func (r *Renderer) ParallelRender(ctx context.Context, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				res := WorkResult{Seq: item.Seq, Region: item.Region, Extra: item.Extra}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					res.Result, res.Err = r.RenderRegion(ctx, item.Region)
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// holding early arrivals until the gap before them is filled. It returns
// once results is closed, or with the first error from fn.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r
		for ready, ok := held[next]; ok; ready, ok = held[next] {
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				// ParallelRender workers block sending on results and the
				// closer goroutine waits on them; consume the rest so
				// neither leaks.
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
