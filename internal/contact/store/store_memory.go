package store

import (
	"context"
	"sync"

	"helpapp/internal/contact/models"
	id "helpapp/pkg/domain"
	"helpapp/pkg/platform/sentinel"
)

// Error Contract:
// - Insert returns ErrLimitReached when the list already holds limit contacts
// - Delete returns ErrNotFound when no contact has the given ID
// - List returns contacts in insertion order

// InMemoryStore keeps contacts in memory. It is the default store when no
// database is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	contacts []*models.Contact
}

// New constructs an empty in-memory contact store.
func New() *InMemoryStore {
	return &InMemoryStore{}
}

// Insert stores c unless the list already holds limit entries. The count and
// the append happen under one lock so concurrent adds cannot overshoot.
func (s *InMemoryStore) Insert(_ context.Context, c *models.Contact, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contacts) >= limit {
		return sentinel.ErrLimitReached
	}
	copyContact := *c
	s.contacts = append(s.contacts, &copyContact)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, contactID id.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == contactID {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		copyContact := *c
		out = append(out, &copyContact)
	}
	return out, nil
}
