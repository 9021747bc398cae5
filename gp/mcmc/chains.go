package mcmc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iastro-pt/gedi/gp"
	"github.com/iastro-pt/gedi/gp/kernel"
)

// RunChains runs chains independent copies of s.Run concurrently, at most
// workers at a time (workers <= 0 means one per chain). Chain i draws from
// the ForChain(i) stream of key, so results are ordered by chain and do
// not depend on workers. The first failing chain cancels the others.
func RunChains(ctx context.Context, s *Sampler, key RunKey, chains, workers int,
	template kernel.Kernel, data gp.Dataset, bounds []Bound,
) ([]*Result, error) {
	if chains <= 0 {
		return nil, fmt.Errorf("%w: chains must be positive, got %d", ErrInvalidConfig, chains)
	}

	rngs := NewPartitionedRNG(key).ForChains(chains)

	results := make([]*Result, chains)
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < chains; i++ {
		g.Go(func() error {
			res, err := s.run(ctx, rngs[i], i, template, data, bounds)
			if err != nil {
				return fmt.Errorf("chain %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
