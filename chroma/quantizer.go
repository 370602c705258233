package chroma

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/prismgo/cloud"
)

// ErrInvalidStep is returned when the quantization step is not positive.
var ErrInvalidStep = errors.New("quantization step must be positive")

// Key is a quantized color bin identifier. Two colors that quantize to
// the same key are indistinguishable for binning. Keys are comparable and
// hashable, so they can be used directly as map keys.
type Key [3]int32

// String returns a compact representation, useful in debug output.
func (k Key) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k[0], k[1], k[2])
}

// Quantizer maps bin-domain color values to discrete keys using a fixed
// step. The mapping is deterministic: identical inputs always produce
// identical keys.
type Quantizer struct {
	step float64
	norm *Normalizer
}

// NewQuantizer creates a Quantizer with the given step and normalizer.
// If norm is nil, a chromaticity-mode normalizer is used.
func NewQuantizer(step float64, norm *Normalizer) (*Quantizer, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}
	if norm == nil {
		norm = NewNormalizer(ModeChromaticity)
	}
	return &Quantizer{step: step, norm: norm}, nil
}

// Step returns the configured quantization step.
func (q *Quantizer) Step() float64 {
	return q.step
}

// Mode returns the normalizer mode in use.
func (q *Quantizer) Mode() Mode {
	return q.norm.Mode()
}

// Quantize normalizes a color and floors each channel by the step.
func (q *Quantizer) Quantize(c cloud.Color) Key {
	v := q.norm.Normalize(c)
	return Key{
		int32(math.Floor(v[0] / q.step)),
		int32(math.Floor(v[1] / q.step)),
		int32(math.Floor(v[2] / q.step)),
	}
}
