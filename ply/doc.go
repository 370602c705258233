// Package ply reads and writes PLY point cloud files.
//
// The decoder handles ascii and binary_little_endian files. The vertex
// element must carry x/y/z positions and a red/green/blue color triple;
// files without color are rejected up front since the sampler has nothing
// to stratify on. All vertex properties beyond position and color are
// opaque: each point's original wire record is kept verbatim and the
// encoder re-emits it byte for byte, so normals, alpha, intensity and any
// custom attributes survive sampling unchanged.
//
// The encoder writes only the vertex element. Connectivity elements
// (faces, edges) reference vertex indices and cannot survive subsetting,
// which matches the tool's contract: the output is a point cloud.
//
// OpenReader and OpenWriter add transparent compression by file suffix:
// .ply.zst (zstd), .ply.gz (gzip) and .ply.lz4 (lz4) are handled without
// the caller knowing.
package ply
