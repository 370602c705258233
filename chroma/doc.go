// Package chroma provides the color transforms that feed the stratified
// sampler: chromaticity normalization and step quantization.
//
// # Chromaticity
//
// Chromaticity divides each channel by the total intensity, making bins
// robust to illumination changes (a lit wall and a shadowed wall land in
// the same bin):
//
//	n := chroma.NewNormalizer(chroma.ModeChromaticity)
//	v := n.Normalize(color) // bin-domain values in 0..255
//
// Pure black has no defined chromaticity; it maps to the fixed fallback
// (1/3, 1/3, 1/3) so downstream binning stays total.
//
// # Quantization
//
// The quantizer discretizes bin-domain values with a configurable step:
//
//	q, err := chroma.NewQuantizer(2.5, chroma.NewNormalizer(chroma.ModeChromaticity))
//	key := q.Quantize(color) // comparable integer key
//
// Larger steps merge more colors into fewer bins. Keys are exact integer
// triples, so bin membership never depends on floating-point equality.
package chroma
