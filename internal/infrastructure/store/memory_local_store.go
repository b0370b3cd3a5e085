package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// MemoryLocalStore is an in-memory LocalStore. Contents are lost on restart.
type MemoryLocalStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryLocalStore() *MemoryLocalStore {
	return &MemoryLocalStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryLocalStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (s *MemoryLocalStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = bytes.Clone(value)
	return nil
}

func (s *MemoryLocalStore) Append(ctx context.Context, key string, item []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := appendJSON(s.data[key], item)
	if err != nil {
		return fmt.Errorf("append %s: %w", key, err)
	}
	s.data[key] = updated
	return nil
}

// Keys returns every stored key, in no particular order.
func (s *MemoryLocalStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
