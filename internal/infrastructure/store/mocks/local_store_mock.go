package mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// MockLocalStore is a mock implementation of store.LocalStore for testing
type MockLocalStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls    []string
	PutCalls    []PutCall
	AppendCalls []PutCall

	// Error injection
	GetErr    error
	PutErr    error
	AppendErr error

	// Optional: called before each Put, outside the store lock
	PutCallback func(key string, value []byte)
}

// PutCall records parameters passed to Put
type PutCall struct {
	Key   string
	Value []byte
}

func NewMockLocalStore() *MockLocalStore {
	return &MockLocalStore{
		data: make(map[string][]byte),
	}
}

func (m *MockLocalStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[key]
	return bytes.Clone(v), ok, nil
}

func (m *MockLocalStore) Put(ctx context.Context, key string, value []byte) error {
	if m.PutCallback != nil {
		m.PutCallback(key, value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls = append(m.PutCalls, PutCall{Key: key, Value: bytes.Clone(value)})
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[key] = bytes.Clone(value)
	return nil
}

// Append adds item to the JSON array at key under the store lock.
func (m *MockLocalStore) Append(ctx context.Context, key string, item []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, PutCall{Key: key, Value: bytes.Clone(item)})
	if m.AppendErr != nil {
		return m.AppendErr
	}
	var items []json.RawMessage
	if v, ok := m.data[key]; ok {
		if err := json.Unmarshal(v, &items); err != nil {
			return err
		}
	}
	data, err := json.Marshal(append(items, json.RawMessage(bytes.Clone(item))))
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

// Value returns the stored value for key as a string, or "" if absent.
func (m *MockLocalStore) Value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// Seed stores a value without recording a call.
func (m *MockLocalStore) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = bytes.Clone(value)
}
