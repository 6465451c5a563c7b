// Package memory provides an in-process ArtifactStore, the default
// backend when no shared store is configured.
package memory

import (
	"context"
	"sync"

	"github.com/nwalker85/agentfoundry/pkg/ports"
)

// Store implements ports.ArtifactStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save persists the artifact bytes in memory.
func (s *Store) Save(ctx context.Context, id string, data []byte) error {
	// Copy so the caller can't mutate stored bytes afterwards.
	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load retrieves the artifact bytes.
func (s *Store) Load(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[id]
	if !ok {
		return nil, ports.ErrArtifactNotFound
	}

	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, nil
}

// Delete removes the artifact.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
