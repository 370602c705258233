package ply

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// IsCloudPath reports whether name looks like a point cloud artifact this
// module can read, including compressed variants.
func IsCloudPath(name string) bool {
	return strings.HasSuffix(TrimCompressionExt(name), ".ply")
}

// TrimCompressionExt strips a recognized compression suffix, if any.
func TrimCompressionExt(name string) string {
	switch path.Ext(name) {
	case ".zst", ".gz", ".lz4":
		return strings.TrimSuffix(name, path.Ext(name))
	default:
		return name
	}
}

// OpenReader wraps rc with a decompressor chosen by file suffix. Plain
// .ply files pass through untouched. Closing the returned reader closes
// rc as well.
func OpenReader(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	switch path.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &decompressReader{r: dec.IOReadCloser(), underlying: rc}, nil
	case ".gz":
		gz, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &decompressReader{r: gz, underlying: rc}, nil
	case ".lz4":
		return &decompressReader{r: io.NopCloser(lz4.NewReader(rc)), underlying: rc}, nil
	default:
		return rc, nil
	}
}

// OpenWriter wraps wc with a compressor chosen by file suffix. Closing
// the returned writer flushes the compressor and closes wc. On error wc
// is left open so the caller can abort it without publishing.
func OpenWriter(wc io.WriteCloser, name string) (io.WriteCloser, error) {
	switch path.Ext(name) {
	case ".zst":
		enc, err := zstd.NewWriter(wc)
		if err != nil {
			return nil, err
		}
		return &compressWriter{w: enc, underlying: wc}, nil
	case ".gz":
		return &compressWriter{w: gzip.NewWriter(wc), underlying: wc}, nil
	case ".lz4":
		return &compressWriter{w: lz4.NewWriter(wc), underlying: wc}, nil
	default:
		return wc, nil
	}
}

type decompressReader struct {
	r          io.ReadCloser
	underlying io.ReadCloser
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressReader) Close() error {
	err := d.r.Close()
	if cerr := d.underlying.Close(); err == nil {
		err = cerr
	}
	return err
}

type compressWriter struct {
	w          io.WriteCloser
	underlying io.WriteCloser
}

func (c *compressWriter) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c *compressWriter) Close() error {
	err := c.w.Close()
	if cerr := c.underlying.Close(); err == nil {
		err = cerr
	}
	return err
}
