// Package memory provides an in-memory audit store for unit tests and
// development runs without infrastructure.
package memory

import (
	"context"
	"sync"

	audit "veritas/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByCompany returns recorded events for a company in append order.
func (s *InMemoryStore) ListByCompany(ctx context.Context, companyID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every recorded event. Test helper.
func (s *InMemoryStore) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
