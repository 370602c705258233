package chroma

import "github.com/hupe1980/prismgo/cloud"

// Mode selects the color transform applied before quantization.
type Mode int

const (
	// ModeChromaticity normalizes each channel by the total intensity.
	// This is the default: it is robust to illumination variation, at the
	// cost of a fallback for zero-intensity (pure black) points.
	ModeChromaticity Mode = iota

	// ModeRaw passes channel values through unchanged. Cheaper, no
	// fallback case, but sensitive to lighting.
	ModeRaw
)

// String returns a short tag for the mode, used in log lines.
func (m Mode) String() string {
	if m == ModeRaw {
		return "rgb"
	}
	return "chroma"
}

// binScale maps normalized [0, 1] channel values to the 0..255 bin
// domain, so the quantization step has the same meaning in both modes
// and regardless of the file's native channel width.
const binScale = 255.0

// fallback is the chromaticity assigned to zero-intensity colors.
// Normalization is undefined for pure black; a fixed value keeps binning
// total without propagating a division failure.
var fallback = [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

// Normalizer converts parsed colors into bin-domain values.
// The zero value is a chromaticity-mode normalizer.
type Normalizer struct {
	mode Mode
}

// NewNormalizer creates a Normalizer with the given mode.
func NewNormalizer(mode Mode) *Normalizer {
	return &Normalizer{mode: mode}
}

// Mode returns the configured mode.
func (n *Normalizer) Mode() Mode {
	return n.mode
}

// Normalize maps a parsed color (channels in [0, 1]) to bin-domain
// values in 0..255. In chromaticity mode each channel is divided by the
// total intensity first; zero-intensity colors take the fixed fallback.
func (n *Normalizer) Normalize(c cloud.Color) [3]float64 {
	if n.mode == ModeRaw {
		return [3]float64{c[0] * binScale, c[1] * binScale, c[2] * binScale}
	}

	sum := c.Sum()
	if sum <= 0 {
		return [3]float64{fallback[0] * binScale, fallback[1] * binScale, fallback[2] * binScale}
	}
	return [3]float64{c[0] / sum * binScale, c[1] / sum * binScale, c[2] / sum * binScale}
}
