package prismgo

import (
	"context"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/prismgo/blobstore"
	"github.com/hupe1980/prismgo/cloud"
	"github.com/hupe1980/prismgo/ledger"
	"github.com/hupe1980/prismgo/ply"
)

// FileResult describes one file run within a batch.
type FileResult struct {
	Input     string
	Output    string
	InPoints  int
	OutPoints int
	Duration  time.Duration
	Skipped   bool
	Err       error
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Results  []FileResult
	Total    int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// OK reports whether every file succeeded.
func (b *BatchSummary) OK() bool {
	return b.Failed == 0
}

// ProcessFile samples a single artifact from src into dst. Compression
// is transparent on both sides, chosen by file suffix.
func (s *Sampler) ProcessFile(ctx context.Context, src blobstore.Store, inName string, dst blobstore.Store, outName string) (FileResult, error) {
	start := time.Now()
	res := FileResult{Input: inName, Output: outName}

	f, err := s.readFile(ctx, src, inName)
	if err != nil {
		res.Err = err
		s.opts.logger.LogFile(ctx, inName, s.Mode().String(), s.QuantizationStep(), s.Capacity(), 0, 0, time.Since(start), err)
		return res, err
	}
	res.InPoints = f.Cloud.Len()

	sampled, err := s.Sample(ctx, f.Cloud)
	if err != nil {
		res.Err = err
		s.opts.logger.LogFile(ctx, inName, s.Mode().String(), s.QuantizationStep(), s.Capacity(), res.InPoints, 0, time.Since(start), err)
		return res, err
	}
	res.OutPoints = sampled.Len()

	if err := s.writeFile(ctx, dst, outName, f.Header, sampled); err != nil {
		res.Err = err
		s.opts.logger.LogFile(ctx, inName, s.Mode().String(), s.QuantizationStep(), s.Capacity(), res.InPoints, res.OutPoints, time.Since(start), err)
		return res, err
	}

	res.Duration = time.Since(start)
	s.opts.logger.LogFile(ctx, inName, s.Mode().String(), s.QuantizationStep(), s.Capacity(), res.InPoints, res.OutPoints, res.Duration, nil)
	return res, nil
}

func (s *Sampler) readFile(ctx context.Context, src blobstore.Store, name string) (*ply.File, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, translateError(err)
	}

	limited := &readCloser{
		Reader: s.ctrl.LimitReader(ctx, rc),
		Closer: rc,
	}
	dec, err := ply.OpenReader(limited, name)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	f, err := ply.Decode(dec)
	if err != nil {
		return nil, translateError(err)
	}
	return f, nil
}

func (s *Sampler) writeFile(ctx context.Context, dst blobstore.Store, name string, h ply.Header, pc *cloud.PointCloud) error {
	wc, err := dst.Create(ctx, name)
	if err != nil {
		return err
	}

	limited := &writeCloser{
		Writer: s.ctrl.LimitWriter(ctx, wc),
		Closer: wc,
	}
	enc, err := ply.OpenWriter(limited, name)
	if err != nil {
		blobstore.Abort(wc)
		return err
	}
	if err := ply.Encode(enc, h, pc); err != nil {
		// Abort first: once the blob is abandoned, closing the codec
		// layer cannot publish a truncated artifact.
		blobstore.Abort(wc)
		enc.Close()
		return err
	}
	return enc.Close()
}

// readCloser pairs a wrapped reader with the original closer.
type readCloser struct {
	io.Reader
	io.Closer
}

// writeCloser pairs a wrapped writer with the original closer.
type writeCloser struct {
	io.Writer
	io.Closer
}

// Run samples every point cloud artifact under inPrefix into the
// mirrored name under outPrefix. Files are processed concurrently within
// the controller's worker budget. Per-file input errors are recorded and
// skipped; the run itself only fails on context cancellation or a
// listing error. Callers should treat a summary with Failed > 0 as a
// non-zero completion status.
func (s *Sampler) Run(ctx context.Context, src blobstore.Store, inPrefix string, dst blobstore.Store, outPrefix string) (*BatchSummary, error) {
	start := time.Now()

	names, err := src.List(ctx, inPrefix)
	if err != nil {
		return nil, err
	}

	var clouds []string
	for _, name := range names {
		if ply.IsCloudPath(name) {
			clouds = append(clouds, name)
		}
	}

	summary := &BatchSummary{Total: len(clouds)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range clouds {
		name := name
		outName := mirrorName(inPrefix, outPrefix, name)

		g.Go(func() error {
			if err := s.ctrl.AcquireWorker(gctx); err != nil {
				return err
			}
			defer s.ctrl.ReleaseWorker()

			if s.opts.ledger != nil && s.opts.resume {
				done, err := s.opts.ledger.Completed(gctx, outPrefix, name)
				if err != nil {
					return err
				}
				if done {
					s.opts.logger.LogSkip(gctx, name)
					mu.Lock()
					summary.Results = append(summary.Results, FileResult{Input: name, Output: outName, Skipped: true})
					summary.Skipped++
					mu.Unlock()
					return nil
				}
			}

			res, err := s.ProcessFile(gctx, src, name, dst, outName)
			if err != nil && gctx.Err() != nil {
				return gctx.Err() // cancelled mid-file, abort the run
			}

			if err == nil && s.opts.ledger != nil {
				lerr := s.opts.ledger.Record(gctx, ledger.Entry{
					Scope:       outPrefix,
					Input:       name,
					Output:      outName,
					InPoints:    res.InPoints,
					OutPoints:   res.OutPoints,
					CompletedAt: time.Now().UTC(),
				})
				if lerr != nil {
					return lerr
				}
			}

			mu.Lock()
			summary.Results = append(summary.Results, res)
			if err != nil {
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	s.opts.logger.LogBatch(ctx, summary.Total, summary.Failed, summary.Skipped, summary.Duration)
	return summary, nil
}

// mirrorName rebases name from inPrefix to outPrefix, preserving the
// relative tree.
func mirrorName(inPrefix, outPrefix, name string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(name, inPrefix), "/")
	return path.Join(outPrefix, rel)
}
