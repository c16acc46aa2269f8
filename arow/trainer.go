package arow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many examples a shard worker processes between
// context cancellation checks.
const ctxCheckInterval = 1024

// TrainShards trains one private classifier per shard concurrently and folds
// the results into a single model by repeated pairwise averaging. Workers
// never share state; the fold after all workers complete is the only
// synchronization point. Returns the merged model and the total zero-one
// mistake count across all shards.
func TrainShards(ctx context.Context, dimension int, shards [][]Example, options ...Option) (*Classifier, int, error) {
	if len(shards) == 0 {
		return nil, 0, fmt.Errorf("%w: no shards", ErrInvalidArgument)
	}

	models := make([]*Classifier, len(shards))
	mistakes := make([]int, len(shards))

	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			m, err := New(dimension, options...)
			if err != nil {
				return err
			}
			for j, ex := range shard {
				if j%ctxCheckInterval == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				loss, err := m.Update(ex.Features, ex.Label)
				if err != nil {
					return fmt.Errorf("shard %d example %d: %w", i, j, err)
				}
				mistakes[i] += loss
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	merged := models[0]
	total := mistakes[0]
	for i := 1; i < len(models); i++ {
		if err := merged.MergeInto(models[i]); err != nil {
			return nil, 0, err
		}
		total += mistakes[i]
	}
	return merged, total, nil
}
