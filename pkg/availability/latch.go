package availability

import (
	"context"
	"sync"
)

// Latch serializes occupancy mutations per property id within a process.
// Different keys never contend; there is no global lock on the hot path
// beyond the map access itself. Acquisition waits no longer than the
// caller's context allows, so a stuck holder cannot starve other
// reservation attempts indefinitely.
//
// Cross-process exclusion is layered on top of this with advisory lock
// documents; the latch keeps the common single-process deployment cheap.
type Latch struct {
	mu      sync.Mutex
	entries map[string]*latchEntry
}

type latchEntry struct {
	sem  chan struct{}
	refs int
}

func NewLatch() *Latch {
	return &Latch{
		entries: make(map[string]*latchEntry),
	}
}

// Acquire blocks until the key's latch is held or ctx is done.
func (l *Latch) Acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &latchEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.drop(key, e)
		return ctx.Err()
	}
}

// Release frees the key's latch. Must only be called after a successful
// Acquire for the same key.
func (l *Latch) Release(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-e.sem
	l.drop(key, e)
}

func (l *Latch) drop(key string, e *latchEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
