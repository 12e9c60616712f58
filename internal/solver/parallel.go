package solver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SolveAll runs one independent search per bracket, concurrently, each with
// its own solver. Results keep the order of brackets. The first error
// cancels the remaining searches.
func SolveAll(ctx context.Context, cfg Config, brackets []Bracket, opts ...Option) ([]*Eigenstate, error) {
	results := make([]*Eigenstate, len(brackets))

	g, ctx := errgroup.WithContext(ctx)
	for i, b := range brackets {
		i, b := i, b
		s, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			state, err := s.Compute(ctx, b)
			if err != nil {
				return err
			}
			results[i] = state
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
