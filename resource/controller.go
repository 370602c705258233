// Package resource bounds the concurrency and I/O throughput of batch
// runs. A single Controller is shared by all workers of a run.
package resource

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of files processed concurrently.
	// If 0, defaults to GOMAXPROCS.
	MaxWorkers int64

	// IOLimitBytesPerSec caps aggregate blob read/write throughput.
	// If 0, unlimited. Useful when the input lives on shared object
	// storage and the batch run must not starve other consumers.
	IOLimitBytesPerSec int64
}

// Controller manages per-run resources (worker slots, I/O budget).
type Controller struct {
	workSem   *semaphore.Weighted
	ioLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a Controller for the given limits.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}

	c := &Controller{
		workSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireWorker blocks until a worker slot is free or ctx is done.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	return c.workSem.Acquire(ctx, 1)
}

// ReleaseWorker returns a worker slot.
func (c *Controller) ReleaseWorker() {
	c.workSem.Release(1)
}

// WaitIO blocks until n bytes of I/O budget are available. A no-op when
// no I/O limit is configured.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c.ioLimiter == nil || n <= 0 {
		return nil
	}
	// rate.Limiter caps a single reservation at its burst size.
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// LimitReader returns a reader that consumes I/O budget as it reads.
// Without an I/O limit the original reader is returned unchanged.
func (c *Controller) LimitReader(ctx context.Context, r io.Reader) io.Reader {
	if c.ioLimiter == nil {
		return r
	}
	return &limitedReader{ctrl: c, ctx: ctx, r: r}
}

// LimitWriter returns a writer that consumes I/O budget as it writes.
func (c *Controller) LimitWriter(ctx context.Context, w io.Writer) io.Writer {
	if c.ioLimiter == nil {
		return w
	}
	return &limitedWriter{ctrl: c, ctx: ctx, w: w}
}

type limitedReader struct {
	ctrl *Controller
	ctx  context.Context
	r    io.Reader
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.ctrl.WaitIO(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

type limitedWriter struct {
	ctrl *Controller
	ctx  context.Context
	w    io.Writer
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if err := l.ctrl.WaitIO(l.ctx, len(p)); err != nil {
		return 0, err
	}
	return l.w.Write(p)
}
