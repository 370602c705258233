package prismgo

import (
	"context"

	"github.com/hupe1980/prismgo/chroma"
	"github.com/hupe1980/prismgo/cloud"
	"github.com/hupe1980/prismgo/outlier"
	"github.com/hupe1980/prismgo/resource"
	"github.com/hupe1980/prismgo/sampler"
)

// Sampler is the configured sampling pipeline. It is immutable after New
// and safe for concurrent use; one Sampler can drive many files.
type Sampler struct {
	opts      options
	quantizer *chroma.Quantizer
	selector  *sampler.Selector
	ctrl      *resource.Controller
}

// New creates a Sampler. All parameters are validated here, before any
// input is read: an invalid capacity or quantization step fails the
// whole run immediately.
func New(optFns ...Option) (*Sampler, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	quantizer, err := chroma.NewQuantizer(opts.step, chroma.NewNormalizer(opts.mode))
	if err != nil {
		return nil, translateError(err)
	}
	selector, err := sampler.NewSelector(opts.capacity, opts.policy)
	if err != nil {
		return nil, translateError(err)
	}

	ctrl := opts.controller
	if ctrl == nil {
		ctrl = resource.NewController(resource.Config{
			MaxWorkers: int64(opts.parallelism),
		})
	}

	return &Sampler{
		opts:      opts,
		quantizer: quantizer,
		selector:  selector,
		ctrl:      ctrl,
	}, nil
}

// Capacity returns the per-bin capacity k.
func (s *Sampler) Capacity() int {
	return s.selector.Capacity()
}

// QuantizationStep returns the quantization step q.
func (s *Sampler) QuantizationStep() float64 {
	return s.quantizer.Step()
}

// Mode returns the color mode in use.
func (s *Sampler) Mode() chroma.Mode {
	return s.quantizer.Mode()
}

// Sample runs the pipeline on an in-memory cloud and returns the sampled
// cloud. The input is never mutated. Returns ErrEmptyCloud for clouds
// with zero points.
func (s *Sampler) Sample(ctx context.Context, pc *cloud.PointCloud) (*cloud.PointCloud, error) {
	if pc.Len() == 0 {
		return nil, ErrEmptyCloud
	}

	if s.opts.outlier {
		pc = outlier.Remove(pc, s.opts.outlierOpts...)
	}

	keyFn := func(p cloud.Point) chroma.Key {
		return s.quantizer.Quantize(p.Color)
	}
	bins, err := sampler.AggregateParallel(ctx, pc, keyFn, s.opts.parallelism)
	if err != nil {
		return nil, err
	}

	selections := make([][]int, 0, len(bins))
	for _, members := range bins {
		selections = append(selections, s.selector.Select(pc, members))
	}

	return sampler.Assemble(pc, selections), nil
}
