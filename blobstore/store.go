package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrAborted is the cause handed to an in-flight upload when its write
// is abandoned.
var ErrAborted = errors.New("write aborted")

// Store is an abstraction for reading and writing point cloud artifacts.
type Store interface {
	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create creates (or replaces) a blob for sequential writing.
	// The write is complete when the returned writer is closed; an
	// aborted write must not leave a partial blob visible where the
	// backend can avoid it.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// List returns the names of all blobs under prefix, in lexical
	// order. Names are slash-separated and relative to the store root.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Aborter discards a write in progress without publishing the blob.
// After Abort, Close becomes a no-op. All stores in this module return
// write handles that implement it.
type Aborter interface {
	Abort() error
}

// Abort abandons the write handle without publishing. Handles that do
// not support aborting are closed instead, which may publish whatever
// was written.
func Abort(wc io.WriteCloser) error {
	if a, ok := wc.(Aborter); ok {
		return a.Abort()
	}
	return wc.Close()
}
