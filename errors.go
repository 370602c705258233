package prismgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/prismgo/blobstore"
	"github.com/hupe1980/prismgo/chroma"
	"github.com/hupe1980/prismgo/ply"
	"github.com/hupe1980/prismgo/sampler"
)

var (
	// ErrInvalidCapacity is returned when the per-bin capacity is below 1.
	// Parameter errors abort a run before any input is read.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrInvalidQuantizationStep is returned when the quantization step
	// is not positive.
	ErrInvalidQuantizationStep = errors.New("quantization step must be positive")

	// ErrEmptyCloud is returned when an input contains zero points.
	ErrEmptyCloud = errors.New("point cloud has no points")

	// ErrMissingColor is returned for inputs without a recognizable
	// color attribute.
	ErrMissingColor = errors.New("point cloud has no color attribute")

	// ErrNotFound is returned when an input artifact does not exist.
	ErrNotFound = errors.New("not found")
)

// translateError maps internal errors to the public error contract.
// The original error stays reachable via errors.Unwrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sampler.ErrInvalidCapacity) {
		return fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}
	if errors.Is(err, chroma.ErrInvalidStep) {
		return fmt.Errorf("%w: %w", ErrInvalidQuantizationStep, err)
	}
	if errors.Is(err, ply.ErrMissingColor) {
		return fmt.Errorf("%w: %w", ErrMissingColor, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

// IsInputError reports whether err concerns a single input artifact
// (missing, unreadable, malformed, or colorless). In batch mode these
// fail the file but not the run. An empty cloud is not an input error:
// the file parsed fine and the pipeline rejected it, so it reports as
// ErrEmptyCloud in its own right.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingColor) ||
		errors.Is(err, ply.ErrInvalidHeader) ||
		errors.Is(err, ply.ErrUnsupportedFormat)
}
