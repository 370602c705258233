// Package sampler implements color-stratified point selection: points are
// partitioned into bins by quantized color, at most k points survive per
// bin, and the survivors are reassembled in original point order.
//
// The three stages are exposed separately (Aggregate, Select, Assemble)
// so callers can inspect intermediate results, but most users go through
// the prismgo facade, which wires them together.
//
// Aggregation is a single linear pass; AggregateParallel shards the point
// sequence across workers and merges partial bin maps, which is safe
// because key computation is purely per-point. Selection is independent
// per bin. Assembly restores global order via an ascending index walk, so
// the output never depends on map iteration order.
package sampler
