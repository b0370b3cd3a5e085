package cart

import (
	"log"
	"sync"
)

// Service keeps one in-memory cart per shopping session.
type Service struct {
	mu        sync.Mutex
	carts     map[string]*Cart // cartID -> cart
	listeners []Listener
}

func NewService() *Service {
	return &Service{carts: make(map[string]*Cart)}
}

// GetCartID returns the cart ID for a session (user ID or guest session ID).
func GetCartID(sessionID string) string {
	return "cart-" + sessionID
}

// Subscribe registers l on every existing and future cart.
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
	for _, c := range s.carts {
		c.Subscribe(l)
	}
}

// ForSession returns the session's cart, creating an empty one on first use.
func (s *Service) ForSession(sessionID string) *Cart {
	cartID := GetCartID(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[cartID]; ok {
		return c
	}
	c := New(cartID)
	for _, l := range s.listeners {
		c.Subscribe(l)
	}
	s.carts[cartID] = c
	log.Printf("[Cart] Opened cart %s", cartID)
	return c
}

