package mocks

import (
	"sync"

	"github.com/example/sassynary-shop/internal/email"
)

// MockMailer records confirmations instead of sending them.
type MockMailer struct {
	mu   sync.Mutex
	Sent []email.OrderConfirmation

	// Error injection
	SendErr error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendOrderConfirmation(c email.OrderConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, c)
	return nil
}
