package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/debloat/pkg/domain"
)

// Store implements ports.PreferenceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Preferences
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Preferences),
	}
}

// Save persists the preferences in memory.
func (s *Store) Save(ctx context.Context, sessionID string, prefs *domain.Preferences) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := prefs.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the preferences from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate the stored value through the pointer
	return prefs.Clone(), nil
}

// Delete removes the preferences.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
