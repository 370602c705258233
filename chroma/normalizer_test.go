package chroma

import (
	"math"
	"testing"

	"github.com/hupe1980/prismgo/cloud"
)

func TestNormalizeChromaticity(t *testing.T) {
	n := NewNormalizer(ModeChromaticity)

	// (0.2, 0.3, 0.5) sums to 1.0, so chromaticity equals the input.
	v := n.Normalize(cloud.Color{0.2, 0.3, 0.5})
	want := [3]float64{0.2 * 255, 0.3 * 255, 0.5 * 255}
	for i := range v {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			t.Errorf("channel %d: got %v, want %v", i, v[i], want[i])
		}
	}
}

func TestNormalizeChromaticityScaleInvariant(t *testing.T) {
	n := NewNormalizer(ModeChromaticity)

	// Chromaticity is invariant under uniform intensity scaling.
	bright := n.Normalize(cloud.Color{0.8, 0.4, 0.4})
	dark := n.Normalize(cloud.Color{0.2, 0.1, 0.1})
	for i := range bright {
		if math.Abs(bright[i]-dark[i]) > 1e-9 {
			t.Errorf("channel %d: bright %v != dark %v", i, bright[i], dark[i])
		}
	}
}

func TestNormalizeBlackFallback(t *testing.T) {
	n := NewNormalizer(ModeChromaticity)

	v := n.Normalize(cloud.Color{0, 0, 0})
	for i := range v {
		if math.Abs(v[i]-255.0/3) > 1e-9 {
			t.Errorf("channel %d: got %v, want %v", i, v[i], 255.0/3)
		}
	}
}

func TestNormalizeRaw(t *testing.T) {
	n := NewNormalizer(ModeRaw)

	v := n.Normalize(cloud.Color{1, 0.5, 0})
	want := [3]float64{255, 127.5, 0}
	for i := range v {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			t.Errorf("channel %d: got %v, want %v", i, v[i], want[i])
		}
	}

	// Raw mode has no fallback: black stays black.
	v = n.Normalize(cloud.Color{0, 0, 0})
	if v != [3]float64{0, 0, 0} {
		t.Errorf("raw black: got %v, want zeros", v)
	}
}

func TestModeString(t *testing.T) {
	if ModeChromaticity.String() != "chroma" {
		t.Errorf("got %q", ModeChromaticity.String())
	}
	if ModeRaw.String() != "rgb" {
		t.Errorf("got %q", ModeRaw.String())
	}
}
