package lint

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunAll lints inputs on up to jobs workers. jobs <= 0 uses GOMAXPROCS.
// Results keep input order. Cancelling ctx stops files that have not started
// yet; a file already being linted always runs to completion.
func (e *Engine) RunAll(ctx context.Context, inputs []FileInput, jobs int) ([]FileResult, error) {
	results := make([]FileResult, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))

	for i := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = e.RunFile(inputs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
