package memory

import (
	"context"
	"sync"

	audit "recrusearch/pkg/platform/audit"
)

// Store keeps events in memory, grouped by actor. Intentionally favors
// clarity over performance.
type Store struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func New() *Store {
	return &Store{events: make(map[string][]audit.Event)}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Actor] = append(s.events[event.Actor], event)
	return nil
}

func (s *Store) ListByActor(_ context.Context, actor string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[actor]...), nil
}
