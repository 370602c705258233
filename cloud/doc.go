// Package cloud defines the in-memory point cloud model shared by the
// sampling pipeline and the file codecs.
//
// A PointCloud is an ordered sequence of points. Order is semantically
// meaningful: the sampler guarantees that the relative order of surviving
// points matches the input, so every transformation in this module is
// expressed in terms of point indices into the original sequence.
//
// Points carry their original wire record (Raw) alongside the parsed
// position and color. The pipeline only ever reads the parsed fields;
// writers emit Raw unchanged, so passthrough attributes (normals, alpha,
// intensity, ...) survive sampling byte for byte.
package cloud
