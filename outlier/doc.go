// Package outlier provides statistical outlier removal for point clouds.
//
// For each point, the mean distance to its configured number of nearest
// neighbors is computed; points whose mean distance exceeds the global
// mean by more than StdRatio standard deviations are dropped. This is the
// classic pre-cleaning pass for scanned clouds, removing isolated noise
// points before sampling.
//
// Neighbor search runs over a uniform spatial hash grid sized so that a
// cell holds roughly one neighborhood, which keeps the pass near-linear
// on typical scans. Like the sampler, the filter only selects a subset:
// surviving points keep every attribute unchanged and their relative
// order is preserved.
package outlier
