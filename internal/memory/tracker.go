package memory

import (
	"context"
	"sync"

	"SignalSentinel/internal/model"
	"SignalSentinel/pkg/logger"
)

// Tracker deduplicates notifications against the last stored signal of each
// pair. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	store Store
	last  map[string]model.SignalKind
	dirty bool
}

// NewTracker loads the prior memory from store. A load failure is logged and
// the tracker starts empty.
func NewTracker(ctx context.Context, store Store) *Tracker {
	last, err := store.Load(ctx)
	if err != nil {
		logger.Warn("load signal memory from %s: %v (starting empty)", store.Name(), err)
	}
	if last == nil {
		last = make(map[string]model.SignalKind)
	}
	logger.Info("signal memory loaded from %s: %d pairs", store.Name(), len(last))
	return &Tracker{store: store, last: last}
}

// Observe records kind for pair and reports whether it should be notified.
// NO_DATA is ignored. Only LONG or SHORT differing from the stored kind
// qualifies for a notification.
func (t *Tracker) Observe(pair string, kind model.SignalKind) bool {
	if kind == model.SignalNoData || !kind.Valid() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.last[pair]
	if ok && prev == kind {
		return false
	}
	t.last[pair] = kind
	t.dirty = true
	return kind.Actionable()
}

// Last returns the stored kind of pair.
func (t *Tracker) Last(pair string) (model.SignalKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kind, ok := t.last[pair]
	return kind, ok
}

// Snapshot returns a copy of the whole memory.
func (t *Tracker) Snapshot() map[string]model.SignalKind {
	t.mu.Lock()
	defer t.mu.Unlock()
	return clone(t.last)
}

// Flush saves the memory when it changed since the last successful save. On
// failure the memory stays dirty and the next Flush retries.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return nil
	}
	snapshot := clone(t.last)
	t.dirty = false
	t.mu.Unlock()

	if err := t.store.Save(ctx, snapshot); err != nil {
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		return err
	}
	return nil
}

// Close closes the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}
