package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/catalog"
)

const (
	inquiryCopiedAlert     = "Order details copied! Opening Instagram chat..."
	inquiryOpenFailedAlert = "We couldn't open Instagram. Please message @sassynary about %s."
)

// Inquiry is a single-product DM message, handed off without creating an order.
type Inquiry struct {
	ProductID   int    `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Message     string `json:"message"`
	DMLink      string `json:"dm_link"`
	ClipboardOK bool   `json:"clipboard_ok"`
	Alert       string `json:"alert,omitempty"`
}

// RenderInquiry builds the message asking about one product.
func RenderInquiry(p catalog.Product, quantity int) string {
	return fmt.Sprintf("Hi Sassynary! 🎀\nI'd like to place an order for:\n\nProduct: %s\nPrice: ₹%s\nQty: %d\n\nPlease let me know the availability and payment details! ✨",
		p.Name, p.Price.String(), quantity)
}

// Inquire copies the inquiry message, then opens the DM link whether or not
// the copy worked. Neither step failing is an error for the caller.
func (s *Service) Inquire(ctx context.Context, h Handoff, p catalog.Product, quantity int) (Inquiry, error) {
	if quantity < 1 {
		return Inquiry{}, cart.ErrInvalidQuantity
	}

	inq := Inquiry{
		ProductID: p.ID,
		Quantity:  quantity,
		Message:   RenderInquiry(p, quantity),
		DMLink:    s.cfg.DMLink,
	}
	if inq.DMLink == "" {
		inq.DMLink = DefaultDMLink
	}
	if err := h.Copy(ctx, inq.Message); err != nil {
		log.Printf("[Checkout] Clipboard write for inquiry on product %d failed: %v", p.ID, err)
		s.metrics.HandoffFailed("copy")
	} else {
		inq.ClipboardOK = true
		inq.Alert = inquiryCopiedAlert
	}
	if err := h.Open(ctx, inq.DMLink); err != nil {
		log.Printf("[Checkout] Opening %s for inquiry on product %d failed: %v", inq.DMLink, p.ID, err)
		s.metrics.HandoffFailed("open")
		inq.Alert = fmt.Sprintf(inquiryOpenFailedAlert, p.Name)
	}
	return inq, nil
}
