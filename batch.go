package laforge

import (
	"golang.org/x/sync/errgroup"
)

// CompileAll runs Compile for each entry in batch concurrently, per
// §5's explicit parallelism allowance: independent compilations may
// run in parallel as long as each owns its own AST and diff state.
// CompileAll honors that by construction — every goroutine only ever
// touches the Options value and Result slot it was given.
//
// Results preserves batch's order; if any compilation fails, CompileAll
// returns the first error encountered (by completion order) and a nil
// result slice.
func CompileAll(batch []Options) ([]*Result, error) {
	results := make([]*Result, len(batch))

	var g errgroup.Group
	for i, opts := range batch {
		i, opts := i, opts
		g.Go(func() error {
			r, err := Compile(opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
