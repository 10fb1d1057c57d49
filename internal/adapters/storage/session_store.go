package storage

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// MemorySessionStore implements ports.SessionStore in process memory.
// Session scope equals process lifetime: restarting the service starts a
// fresh session, so the last-shown slot is empty by construction.
type MemorySessionStore struct {
	mu        sync.RWMutex
	lastShown domain.Quote
	set       bool
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// LoadLastShown implements ports.SessionStore.
func (s *MemorySessionStore) LoadLastShown(_ context.Context) (domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return domain.Quote{}, domain.NewNotFoundError("last shown quote", "")
	}

	return s.lastShown, nil
}

// SaveLastShown implements ports.SessionStore.
func (s *MemorySessionStore) SaveLastShown(_ context.Context, quote domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastShown = quote
	s.set = true

	return nil
}
