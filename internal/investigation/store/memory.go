package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lynx/internal/investigation/models"
)

// MemoryStore is an in-memory Store used in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]models.Investigation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string]models.Investigation)}
}

func (s *MemoryStore) Create(ctx context.Context, inv *models.Investigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = uuid.NewString()
	s.docs[inv.ID] = *inv
	return nil
}

func (s *MemoryStore) Put(ctx context.Context, inv models.Investigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[inv.ID] = inv
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Investigation, 0, len(s.docs))
	for _, inv := range s.docs {
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}
