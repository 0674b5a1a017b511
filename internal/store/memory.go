package store

import (
	"context"
	"sync"
)

// MemoryStore keeps the document in process memory. Used by tests and by
// `--store memory` runs that should leave nothing behind.
type MemoryStore struct {
	mu   sync.Mutex
	data Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(Document)}
}

func (s *MemoryStore) Get(ctx context.Context, keys ...string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("get", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pick(s.data, keys), nil
}

func (s *MemoryStore) Set(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return storageErr("set", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range doc {
		cp := make([]byte, len(v))
		copy(cp, v)
		s.data[k] = cp
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
