package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "OrderPlaced"

// OrderPlaced is published once per checkout submission.
type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Email         string          `json:"email"`
	CustomerName  string          `json:"customer_name"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	PlacedAt      time.Time       `json:"placed_at"`
}

func (OrderPlaced) EventType() string { return EventOrderPlaced }

// PlacedEvent derives the notification event from a record.
func (r Record) PlacedEvent() OrderPlaced {
	return OrderPlaced{
		OrderID:       r.OrderID,
		UserID:        r.UserID,
		Email:         r.Shipping.Email,
		CustomerName:  r.Shipping.FullName(),
		Items:         r.Items,
		Total:         r.Total,
		PaymentMethod: r.PaymentMethod,
		PlacedAt:      r.CreatedAt,
	}
}
