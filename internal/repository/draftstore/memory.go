package draftstore

import (
	"context"
	"sync"

	"go-advisory-contact/internal/domain"
)

type memoryBackend struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
}

// MemoryStore keeps drafts in process memory, one slot per key. It is used
// in tests and as the fallback when no persistent store is configured.
type MemoryStore struct {
	key     string
	backend *memoryBackend
}

func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{
		key:     key,
		backend: &memoryBackend{drafts: make(map[string]domain.Draft)},
	}
}

// WithKey returns a store sharing the same memory under another key.
func (s *MemoryStore) WithKey(key string) *MemoryStore {
	return &MemoryStore{key: key, backend: s.backend}
}

func (s *MemoryStore) Save(ctx context.Context, draft domain.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.drafts[s.key] = draft
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return domain.Draft{}, err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	d, ok := s.backend.drafts[s.key]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.drafts, s.key)
	return nil
}

// Has reports whether a draft is stored under the store's key.
func (s *MemoryStore) Has() bool {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	_, ok := s.backend.drafts[s.key]
	return ok
}
