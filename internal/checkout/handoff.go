package checkout

import (
	"context"
	"errors"
	"sync"
)

// Handoff moves the order summary to the customer's messaging app.
type Handoff interface {
	// Copy places text on the customer's clipboard.
	Copy(ctx context.Context, text string) error
	// Open navigates to url in a new browsing context.
	Open(ctx context.Context, url string) error
}

var ErrHandoffClosed = errors.New("handoff already delivered")

// ResponseHandoff hands the summary and link back to the HTTP client, which
// performs the clipboard write and opens the link itself.
type ResponseHandoff struct {
	mu        sync.Mutex
	clipboard string
	link      string
	closed    bool
}

func NewResponseHandoff() *ResponseHandoff {
	return &ResponseHandoff{}
}

func (h *ResponseHandoff) Copy(ctx context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandoffClosed
	}
	h.clipboard = text
	return nil
}

func (h *ResponseHandoff) Open(ctx context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandoffClosed
	}
	h.link = url
	return nil
}

// Deliver returns what was handed off and refuses further writes.
func (h *ResponseHandoff) Deliver() (clipboard, link string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return h.clipboard, h.link
}
