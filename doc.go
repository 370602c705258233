// Package prismgo reduces colored 3D point clouds by color-stratified
// sampling: points are binned by quantized chromaticity and at most k
// points survive per bin, so chromatically diverse regions keep more
// samples than homogeneous ones (walls, roads) while the total output
// size stays controlled.
//
// # Quick start
//
//	s, err := prismgo.New(
//	    prismgo.WithCapacity(2),
//	    prismgo.WithQuantizationStep(4.0),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sampled, err := s.Sample(ctx, pc)
//
// Sampling a file (compression and color detection are automatic):
//
//	res, err := s.ProcessFile(ctx, src, "scan.ply", dst, "scan.ply")
//
// Batch mode consumes every point cloud under an input prefix and
// mirrors the tree under the output prefix; per-file input errors are
// reported and skipped, never aborting sibling files:
//
//	summary, err := s.Run(ctx, src, "raw/", dst, "sampled/")
//
// # Guarantees
//
//   - The output index set is a subset of the input's; relative order is
//     preserved.
//   - |output| <= min(|input|, k * distinct bins).
//   - Surviving points keep position, color, and every passthrough
//     attribute byte for byte.
//   - Identical input and parameters produce bit-identical output.
package prismgo
