package prismgo

import (
	"github.com/hupe1980/prismgo/chroma"
	"github.com/hupe1980/prismgo/ledger"
	"github.com/hupe1980/prismgo/outlier"
	"github.com/hupe1980/prismgo/resource"
	"github.com/hupe1980/prismgo/sampler"
)

type options struct {
	capacity    int
	step        float64
	mode        chroma.Mode
	policy      sampler.Policy
	parallelism int
	logger      *Logger
	outlier     bool
	outlierOpts []func(o *outlier.Options)
	ledger      ledger.Ledger
	resume      bool
	controller  *resource.Controller
}

func defaultOptions() options {
	return options{
		capacity: 1,
		step:     1.0,
		mode:     chroma.ModeChromaticity,
		policy:   sampler.PolicyFirstK,
		logger:   NoopLogger(),
	}
}

// Option configures a Sampler.
type Option func(*options)

// WithCapacity sets the per-bin capacity k: at most k points survive
// from each color bin. Default: 1.
func WithCapacity(k int) Option {
	return func(o *options) {
		o.capacity = k
	}
}

// WithQuantizationStep sets the color quantization step q. Channel
// values live in the 0..255 bin domain, so q=1 distinguishes roughly one
// 8-bit level per bin and larger values merge more colors. Default: 1.0.
func WithQuantizationStep(q float64) Option {
	return func(o *options) {
		o.step = q
	}
}

// WithRawColor disables chromaticity normalization and bins on raw
// channel values. Cheaper and without the black-point fallback, but not
// robust to illumination variation.
func WithRawColor() Option {
	return func(o *options) {
		o.mode = chroma.ModeRaw
	}
}

// WithSelectionPolicy sets how points are chosen when a bin exceeds its
// capacity. Default: sampler.PolicyFirstK, which is the reproducible
// reference behavior.
func WithSelectionPolicy(p sampler.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithParallelism bounds the workers used for bin aggregation and, in
// batch mode, concurrent files. Default: GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLogger sets the logger. The library is silent by default.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithOutlierRemoval enables the statistical outlier pre-pass before
// sampling.
func WithOutlierRemoval(optFns ...func(o *outlier.Options)) Option {
	return func(o *options) {
		o.outlier = true
		o.outlierOpts = optFns
	}
}

// WithLedger records per-file completions to l. When resume is true,
// files whose completion is already recorded are skipped in batch mode.
func WithLedger(l ledger.Ledger, resume bool) Option {
	return func(o *options) {
		o.ledger = l
		o.resume = resume
	}
}

// WithResourceController shares a resource controller across runs,
// typically to cap I/O throughput against shared object storage.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}
