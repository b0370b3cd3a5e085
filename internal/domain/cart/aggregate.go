package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/sassynary-shop/internal/domain/catalog"
)

// ReservationWindow is how long the cart UI shows items as "reserved".
// Nothing is released when it runs out.
const ReservationWindow = 10 * time.Minute

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Line is one product/quantity pairing. Quantity is always >= 1.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a point-in-time copy of a cart with its derived values.
type Snapshot struct {
	CartID        string          `json:"cart_id"`
	Lines         []Line          `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	ReservedUntil *time.Time      `json:"reserved_until,omitempty"`
}

func (s Snapshot) IsEmpty() bool { return len(s.Lines) == 0 }

// Listener is notified after every applied event, before the mutating call returns.
type Listener func(cartID string, event Event)

// Cart holds the line items of one shopping session.
type Cart struct {
	mu            sync.Mutex
	id            string
	lines         []Line
	reservedUntil time.Time
	listeners     []Listener
	now           func() time.Time
}

func New(id string) *Cart {
	return &Cart{id: id, now: time.Now}
}

func (c *Cart) ID() string { return c.id }

// Subscribe registers a listener for subsequent state changes.
func (c *Cart) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// AddItem increments the line for product.ID by quantity, creating it if absent.
func (c *Cart) AddItem(product catalog.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	c.record(ItemAddedToCart{
		CartID:   c.id,
		Product:  product,
		Quantity: quantity,
		AddedAt:  c.now(),
	})
	return nil
}

// RemoveItem deletes the line for productID. Absent products are a no-op.
func (c *Cart) RemoveItem(productID int) {
	c.record(ItemRemovedFromCart{
		CartID:    c.id,
		ProductID: productID,
		RemovedAt: c.now(),
	})
}

// SetQuantity replaces the quantity of an existing line; quantity < 1 removes it.
func (c *Cart) SetQuantity(productID, quantity int) {
	if quantity < 1 {
		c.RemoveItem(productID)
		return
	}
	c.record(CartQuantityChanged{
		CartID:    c.id,
		ProductID: productID,
		Quantity:  quantity,
		ChangedAt: c.now(),
	})
}

func (c *Cart) Clear() {
	c.record(CartCleared{CartID: c.id, ClearedAt: c.now()})
}

// Total is the sum of unit price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.lines)
}

// Count is the sum of quantities, for the bag badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countOf(c.lines)
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		CartID: c.id,
		Lines:  cloneLines(c.lines),
		Total:  totalOf(c.lines),
		Count:  countOf(c.lines),
	}
	if !c.reservedUntil.IsZero() {
		until := c.reservedUntil
		snap.ReservedUntil = &until
	}
	return snap
}

// ApplyEvent applies a single event to the cart state.
func (c *Cart) ApplyEvent(event Event) {
	switch e := event.(type) {
	case ItemAddedToCart:
		if len(c.lines) == 0 {
			c.reservedUntil = e.AddedAt.Add(ReservationWindow)
		}
		if idx := c.indexOf(e.Product.ID); idx >= 0 {
			c.lines[idx].Quantity += e.Quantity
			return
		}
		c.lines = append(c.lines, Line{Product: e.Product, Quantity: e.Quantity})
	case CartQuantityChanged:
		if idx := c.indexOf(e.ProductID); idx >= 0 {
			c.lines[idx].Quantity = e.Quantity
		}
	case ItemRemovedFromCart:
		if idx := c.indexOf(e.ProductID); idx >= 0 {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		}
		if len(c.lines) == 0 {
			c.reservedUntil = time.Time{}
		}
	case CartCleared:
		c.lines = nil
		c.reservedUntil = time.Time{}
	}
}

func (c *Cart) record(event Event) {
	c.mu.Lock()
	c.ApplyEvent(event)
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(c.id, event)
	}
}

func (c *Cart) indexOf(productID int) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func totalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func countOf(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
