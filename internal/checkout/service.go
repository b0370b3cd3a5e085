package checkout

import (
	"sync"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/metrics"
)

// Service keeps one checkout session per shopping session.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg       Config
	carts     *cart.Service
	orders    OrderWriter
	publisher EventPublisher
	metrics   *metrics.Metrics
}

func NewService(cfg Config, carts *cart.Service, orders OrderWriter, publisher EventPublisher, m *metrics.Metrics) *Service {
	return &Service{
		sessions:  make(map[string]*Session),
		cfg:       cfg,
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		metrics:   m,
	}
}

func (s *Service) Config() Config { return s.cfg }

// ForSession returns the session's checkout, starting it with profile on first use.
func (s *Service) ForSession(sessionID string, profile Profile) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess := NewSession(s.cfg, s.carts.ForSession(sessionID), s.orders, s.publisher, s.metrics)
	sess.Start(profile)
	s.sessions[sessionID] = sess
	return sess
}
