package notification

import (
	"context"
	"log"

	"github.com/example/sassynary-shop/internal/domain/order"
	"github.com/example/sassynary-shop/internal/email"
	"github.com/example/sassynary-shop/internal/infrastructure/kafka"
)

var paymentLabels = map[order.PaymentMethod]string{
	order.PaymentCard: "Card",
	order.PaymentUPI:  "UPI",
	order.PaymentCOD:  "Cash on delivery",
}

// Mailer sends order confirmations.
type Mailer interface {
	SendOrderConfirmation(c email.OrderConfirmation) error
}

// Handler processes events for sending notifications
type Handler struct {
	mailer Mailer
	dmLink string
}

func NewHandler(mailer Mailer, dmLink string) *Handler {
	return &Handler{mailer: mailer, dmLink: dmLink}
}

// HandleEvent reacts to one order event. Only OrderPlaced sends mail.
func (h *Handler) HandleEvent(ctx context.Context, event kafka.Event) error {
	switch event.Type {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event)
	default:
		return nil
	}
}

func (h *Handler) handleOrderPlaced(event kafka.Event) error {
	var e order.OrderPlaced
	if err := event.Decode(&e); err != nil {
		log.Printf("[Notifier] %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, user %s", e.OrderID, e.UserID)

	if e.Email == "" {
		log.Printf("[Notifier] Order %s has no e-mail address, skipping", e.OrderID)
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	confirmation := email.OrderConfirmation{
		To:            e.Email,
		CustomerName:  e.CustomerName,
		OrderID:       e.OrderID,
		Items:         items,
		Total:         e.Total,
		PaymentMethod: paymentLabels[e.PaymentMethod],
		DMLink:        h.dmLink,
	}
	if err := h.mailer.SendOrderConfirmation(confirmation); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", e.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", e.Email, e.OrderID)
	return nil
}
