package analysis

import (
	"context"
	"sync"
)

// Tracker keeps at most one active request per key. Starting a request
// cancels the previous one for the same key, and Finish reports whether a
// completion still belongs to the active request so stale results can be
// dropped.
type Tracker struct {
	mu     sync.Mutex
	next   uint64
	active map[string]*tracked
}

type tracked struct {
	token  uint64
	cancel context.CancelFunc
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*tracked)}
}

// Start registers a new request for key, cancelling any previous one. The
// returned context is cancelled when the request is superseded or cancelled.
func (t *Tracker) Start(parent context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.active[key]; ok {
		prev.cancel()
	}
	t.next++
	t.active[key] = &tracked{token: t.next, cancel: cancel}
	return ctx, t.next
}

// IsActive reports whether token is the current request for key
func (t *Tracker) IsActive(key string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.active[key]
	return ok && cur.token == token
}

// Finish releases the request and reports whether it was still active.
// A false result means the completion is stale and must be discarded.
func (t *Tracker) Finish(key string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.active[key]
	if !ok || cur.token != token {
		return false
	}
	cur.cancel()
	delete(t.active, key)
	return true
}

// Cancel aborts the active request for key, if any
func (t *Tracker) Cancel(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.active[key]; ok {
		cur.cancel()
		delete(t.active, key)
	}
}

// CancelAll aborts every active request
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, cur := range t.active {
		cur.cancel()
		delete(t.active, key)
	}
}
