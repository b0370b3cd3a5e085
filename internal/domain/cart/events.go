package cart

import (
	"time"

	"github.com/example/sassynary-shop/internal/domain/catalog"
)

const (
	EventItemAdded       = "ItemAddedToCart"
	EventQuantityChanged = "CartQuantityChanged"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventCartCleared     = "CartCleared"
)

// Event is a state change applied to a Cart.
type Event interface {
	EventType() string
}

type ItemAddedToCart struct {
	CartID   string          `json:"cart_id"`
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

type CartQuantityChanged struct {
	CartID    string    `json:"cart_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	ProductID int       `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

func (ItemAddedToCart) EventType() string     { return EventItemAdded }
func (CartQuantityChanged) EventType() string { return EventQuantityChanged }
func (ItemRemovedFromCart) EventType() string { return EventItemRemoved }
func (CartCleared) EventType() string         { return EventCartCleared }
