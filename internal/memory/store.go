package memory

import (
	"context"
	"sync"

	"SignalSentinel/internal/model"
)

// Store persists the last notified-or-observed signal of each pair.
type Store interface {
	Name() string
	Load(ctx context.Context) (map[string]model.SignalKind, error)
	Save(ctx context.Context, last map[string]model.SignalKind) error
	Close() error
}

// InMemoryStore keeps the memory in process. Used for tests and dry runs.
type InMemoryStore struct {
	mu   sync.Mutex
	data map[string]model.SignalKind
	// Saves counts successful Save calls.
	Saves int
}

func NewInMemoryStore(initial map[string]model.SignalKind) *InMemoryStore {
	return &InMemoryStore{data: clone(initial)}
}

func (s *InMemoryStore) Name() string { return "memory" }

func (s *InMemoryStore) Load(_ context.Context) (map[string]model.SignalKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.data), nil
}

func (s *InMemoryStore) Save(_ context.Context, last map[string]model.SignalKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = clone(last)
	s.Saves++
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

func clone(m map[string]model.SignalKind) map[string]model.SignalKind {
	out := make(map[string]model.SignalKind, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
