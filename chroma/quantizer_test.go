package chroma

import (
	"errors"
	"testing"

	"github.com/hupe1980/prismgo/cloud"
)

func TestNewQuantizerInvalidStep(t *testing.T) {
	for _, step := range []float64{0, -1, -0.001} {
		if _, err := NewQuantizer(step, nil); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("step %v: got err %v, want ErrInvalidStep", step, err)
		}
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	q, err := NewQuantizer(1.0, NewNormalizer(ModeRaw))
	if err != nil {
		t.Fatalf("NewQuantizer failed: %v", err)
	}

	c := cloud.Color{0.25, 0.5, 0.75}
	k1 := q.Quantize(c)
	k2 := q.Quantize(c)
	if k1 != k2 {
		t.Errorf("quantization not deterministic: %v != %v", k1, k2)
	}
}

func TestQuantizeFloor(t *testing.T) {
	q, err := NewQuantizer(10.0, NewNormalizer(ModeRaw))
	if err != nil {
		t.Fatalf("NewQuantizer failed: %v", err)
	}

	// Raw mode scales to 0..255: 0.1*255 = 25.5, floor(25.5/10) = 2.
	k := q.Quantize(cloud.Color{0.1, 0, 1})
	want := Key{2, 0, 25} // floor(255/10) = 25
	if k != want {
		t.Errorf("got %v, want %v", k, want)
	}
}

func TestQuantizeLargerStepMergesBins(t *testing.T) {
	colors := []cloud.Color{
		{0.1, 0.2, 0.3},
		{0.11, 0.19, 0.31},
		{0.5, 0.1, 0.9},
		{0.9, 0.9, 0.1},
		{0.05, 0.8, 0.2},
	}

	distinct := func(step float64) int {
		q, err := NewQuantizer(step, NewNormalizer(ModeRaw))
		if err != nil {
			t.Fatalf("NewQuantizer failed: %v", err)
		}
		seen := make(map[Key]struct{})
		for _, c := range colors {
			seen[q.Quantize(c)] = struct{}{}
		}
		return len(seen)
	}

	// Increasing the step never increases the number of distinct bins.
	prev := distinct(0.5)
	for _, step := range []float64{1, 2, 8, 32, 128, 512} {
		cur := distinct(step)
		if cur > prev {
			t.Errorf("step %v: %d bins, more than %d at smaller step", step, cur, prev)
		}
		prev = cur
	}

	// A step larger than the whole bin domain collapses everything.
	if got := distinct(1000); got != 1 {
		t.Errorf("oversized step: got %d bins, want 1", got)
	}
}

func TestQuantizeBlackFallbackKey(t *testing.T) {
	q, err := NewQuantizer(1.0, nil) // default chromaticity mode
	if err != nil {
		t.Fatalf("NewQuantizer failed: %v", err)
	}

	// Black maps to the fallback chromaticity (1/3, 1/3, 1/3).
	black := q.Quantize(cloud.Color{0, 0, 0})
	gray := q.Quantize(cloud.Color{0.5, 0.5, 0.5})
	if black != gray {
		t.Errorf("black key %v should equal neutral gray key %v", black, gray)
	}
}
