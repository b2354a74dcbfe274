package out

import (
	"context"

	"rsoc/internal/modules/analytics/domain"
)

// MemoryStore keeps events in order of arrival. The TUI event pane reads
// it; tests assert against it.
type MemoryStore struct {
	events []domain.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event domain.Event) error {
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]domain.Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}

// Names returns just the event names, oldest first.
func (s *MemoryStore) Names() []string {
	names := make([]string, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.Name)
	}
	return names
}
