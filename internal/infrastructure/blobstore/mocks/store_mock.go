package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/example/sassynary-shop/internal/infrastructure/blobstore"
)

// MockStore is an in-memory blobstore.Store for testing
type MockStore struct {
	mu      sync.Mutex
	objects map[string]Object

	// For tracking calls in tests
	UploadCalls []string

	// Error injection
	UploadErr error
}

// Object is one uploaded blob
type Object struct {
	ContentType string
	Data        []byte
}

func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string]Object)}
}

func (m *MockStore) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	m.mu.Lock()
	m.UploadCalls = append(m.UploadCalls, objectPath)
	uploadErr := m.UploadErr
	m.mu.Unlock()
	if uploadErr != nil {
		return "", uploadErr
	}
	if objectPath == "" {
		return "", blobstore.ErrEmptyPath
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectPath] = Object{ContentType: contentType, Data: data}
	return "https://blobs.test/" + objectPath, nil
}

// Object returns an uploaded blob.
func (m *MockStore) Object(objectPath string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[objectPath]
	return o, ok
}

var _ blobstore.Store = (*MockStore)(nil)
