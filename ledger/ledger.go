package ledger

import (
	"context"
	"sync"
	"time"
)

// Entry records one completed file run.
type Entry struct {
	// Scope groups entries belonging to one logical batch target.
	Scope string
	// Input is the input artifact name within the scope.
	Input string
	// Output is the written artifact name.
	Output string
	// InPoints and OutPoints are the point counts before and after
	// sampling.
	InPoints  int
	OutPoints int
	// CompletedAt is when the output write finished.
	CompletedAt time.Time
}

// Ledger tracks completed file runs.
// Implementations must be safe for concurrent use.
type Ledger interface {
	// Completed reports whether an entry for (scope, input) exists.
	Completed(ctx context.Context, scope, input string) (bool, error)

	// Record persists an entry, replacing any previous one for the same
	// (scope, input).
	Record(ctx context.Context, e Entry) error
}

// MemoryLedger implements Ledger in process memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]Entry)}
}

func ledgerKey(scope, input string) string {
	return scope + "\x00" + input
}

// Completed reports whether an entry exists.
func (l *MemoryLedger) Completed(_ context.Context, scope, input string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[ledgerKey(scope, input)]
	return ok, nil
}

// Record stores an entry.
func (l *MemoryLedger) Record(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[ledgerKey(e.Scope, e.Input)] = e
	return nil
}

// Len returns the number of recorded entries.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
