package sampler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/prismgo/chroma"
	"github.com/hupe1980/prismgo/cloud"
)

// KeyFunc computes the bin key for a single point.
type KeyFunc func(p cloud.Point) chroma.Key

// Bins maps a quantized color key to its member point indices. Members
// are kept in ascending original order, and the bins form a partition of
// the input index set: every index appears in exactly one bin.
type Bins map[chroma.Key][]int

// Members returns the total number of indices across all bins.
func (b Bins) Members() int {
	n := 0
	for _, members := range b {
		n += len(members)
	}
	return n
}

// Aggregate partitions all point indices into bins with a single linear
// pass in original order.
func Aggregate(pc *cloud.PointCloud, keyFn KeyFunc) Bins {
	bins := make(Bins)
	for i, p := range pc.Points {
		k := keyFn(p)
		bins[k] = append(bins[k], i)
	}
	return bins
}

// AggregateParallel shards the point sequence across workers, builds
// partial bin maps, and merges them by key union. Shards are contiguous
// index ranges merged in shard order, so member lists stay in ascending
// original order without any sorting.
//
// workers <= 0 uses GOMAXPROCS. Small clouds fall back to the serial path.
func AggregateParallel(ctx context.Context, pc *cloud.PointCloud, keyFn KeyFunc, workers int) (Bins, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := pc.Len()
	if workers == 1 || n < 2*workers {
		return Aggregate(pc, keyFn), nil
	}

	partials := make([]Bins, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part := make(Bins)
			for i := lo; i < hi; i++ {
				k := keyFn(pc.Points[i])
				part[k] = append(part[k], i)
			}
			partials[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(Bins)
	for _, part := range partials {
		for k, members := range part {
			merged[k] = append(merged[k], members...)
		}
	}
	return merged, nil
}
