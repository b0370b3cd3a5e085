package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/sassynary-shop/internal/domain/cart"
)

// GuestUserID marks orders placed without signing in.
const GuestUserID = "guest"

const idPrefix = "SN-"

type Status string

const (
	// StatusAwaitingDM: payment is arranged over direct message.
	StatusAwaitingDM Status = "awaiting_dm"
	// StatusPendingConfirmation: a payment method was picked but nothing was charged.
	StatusPendingConfirmation Status = "pending_confirmation"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return true
	}
	return false
}

var ErrEmptyOrder = errors.New("order must have at least one item")

type ShippingInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func (s ShippingInfo) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Item is a price snapshot of one cart line at submission time.
type Item struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Record is the persisted result of a checkout. It has no mutators.
type Record struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Surcharge     decimal.Decimal `json:"surcharge"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Total         decimal.Decimal `json:"total"`
	Shipping      ShippingInfo    `json:"shipping"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Params struct {
	OrderID       string
	UserID        string
	Lines         []cart.Line
	Shipping      ShippingInfo
	PaymentMethod PaymentMethod
	Surcharge     decimal.Decimal
	ShippingFee   decimal.Decimal
	CreatedAt     time.Time
}

// NewRecord assembles a record from a cart's lines. An empty user id becomes GuestUserID.
func NewRecord(p Params) (Record, error) {
	if len(p.Lines) == 0 {
		return Record{}, ErrEmptyOrder
	}

	items := make([]Item, len(p.Lines))
	subtotal := decimal.Zero
	for i, l := range p.Lines {
		items[i] = Item{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		}
		subtotal = subtotal.Add(items[i].LineTotal())
	}

	userID := p.UserID
	if userID == "" {
		userID = GuestUserID
	}
	status := StatusAwaitingDM
	if p.PaymentMethod != "" {
		status = StatusPendingConfirmation
	}

	return Record{
		OrderID:       p.OrderID,
		UserID:        userID,
		Items:         items,
		Subtotal:      subtotal,
		Surcharge:     p.Surcharge,
		ShippingFee:   p.ShippingFee,
		Total:         subtotal.Add(p.Surcharge).Add(p.ShippingFee),
		Shipping:      p.Shipping,
		PaymentMethod: p.PaymentMethod,
		Status:        status,
		CreatedAt:     p.CreatedAt,
	}, nil
}

// Document is the remote "orders" collection shape. createdAt is assigned by the store.
func (r Record) Document() map[string]any {
	items := make([]map[string]any, len(r.Items))
	for i, it := range r.Items {
		items[i] = map[string]any{
			"id":    it.ProductID,
			"name":  it.Name,
			"qty":   it.Quantity,
			"price": it.UnitPrice.InexactFloat64(),
		}
	}
	doc := map[string]any{
		"orderId":     r.OrderID,
		"userId":      r.UserID,
		"items":       items,
		"subtotal":    r.Subtotal.InexactFloat64(),
		"surcharge":   r.Surcharge.InexactFloat64(),
		"shippingFee": r.ShippingFee.InexactFloat64(),
		"total":       r.Total.InexactFloat64(),
		"shipping": map[string]any{
			"firstName": r.Shipping.FirstName,
			"lastName":  r.Shipping.LastName,
			"email":     r.Shipping.Email,
			"phone":     r.Shipping.Phone,
			"address":   r.Shipping.Address,
			"city":      r.Shipping.City,
			"state":     r.Shipping.State,
			"zip":       r.Shipping.PostalCode,
		},
		"status": string(r.Status),
	}
	if r.PaymentMethod != "" {
		doc["paymentMethod"] = string(r.PaymentMethod)
	}
	return doc
}

// Rand is satisfied by *rand.Rand from math/rand/v2.
type Rand interface {
	IntN(n int) int
}

// NewOrderID returns "SN-" plus six random digits. Ids are not guaranteed unique.
func NewOrderID(rng Rand) string {
	return fmt.Sprintf("%s%d", idPrefix, 100000+rng.IntN(900000))
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// GenerateOrderID uses the process-wide random source.
func GenerateOrderID() string {
	return NewOrderID(globalRand{})
}
