package docstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores data as-is. Unlike the persistent backends it does not require
// valid JSON, so callers can exercise their decode paths.
func (s *MemoryStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.docs[collection]
	if !ok {
		c = make(map[string][]byte)
		s.docs[collection] = c
	}
	c[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs[collection], id)
	return nil
}

// Len returns the number of documents in a collection
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[collection])
}
