package scratch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts n workers, each owning a distinct pool for its lifetime. The pool
// is also reachable through FromContext. The first error cancels the context
// passed to the other workers and is returned.
func Run(ctx context.Context, reg *Registry, n int, fn func(ctx context.Context, p *Pool, worker int) error) error {
	g, ctx := errgroup.WithContext(ctx)

	for w := range n {
		g.Go(func() error {
			return reg.Do(func(p *Pool) error {
				return fn(NewContext(ctx, p), p, w)
			})
		})
	}

	return g.Wait()
}
