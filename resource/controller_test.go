package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestWorkerSlots(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MaxWorkers: 2})

	if err := c.AcquireWorker(ctx); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := c.AcquireWorker(ctx); err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	// Third slot should block until a release.
	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := c.AcquireWorker(blocked); err == nil {
		t.Fatal("third acquire should have blocked")
	}

	c.ReleaseWorker()
	if err := c.AcquireWorker(ctx); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
}

func TestWaitIOUnlimited(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	if err := c.WaitIO(context.Background(), 1<<30); err != nil {
		t.Fatalf("unlimited WaitIO failed: %v", err)
	}
}

func TestWaitIOLargerThanBurst(t *testing.T) {
	// A request above the burst size must be split, not rejected.
	c := NewController(Config{MaxWorkers: 1, IOLimitBytesPerSec: 1 << 20})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.WaitIO(ctx, 1<<20+512); err != nil {
		t.Fatalf("WaitIO above burst failed: %v", err)
	}
}

func TestLimitReaderPassesData(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MaxWorkers: 1, IOLimitBytesPerSec: 1 << 20})

	src := strings.Repeat("x", 4096)
	r := c.LimitReader(ctx, strings.NewReader(src))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != src {
		t.Error("limited reader corrupted data")
	}
}

func TestLimitWriterPassesData(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MaxWorkers: 1, IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := c.LimitWriter(ctx, &buf)
	if _, err := w.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "hello world" {
		t.Error("limited writer corrupted data")
	}
}

func TestNoLimitReturnsOriginal(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	r := strings.NewReader("x")
	if c.LimitReader(context.Background(), r) != io.Reader(r) {
		t.Error("reader should pass through when unlimited")
	}
}
