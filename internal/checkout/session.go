// Package checkout drives an order from shipping details to the DM handoff.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/order"
	"github.com/example/sassynary-shop/internal/metrics"
	"github.com/example/sassynary-shop/internal/syncbridge"
)

type State string

const (
	StateCollectingShipping State = "collecting_shipping"
	StateCollectingPayment  State = "collecting_payment"
	StateSubmitting         State = "submitting"
	StateSucceeded          State = "succeeded"
)

const DefaultDMLink = "https://ig.me/m/sassynary"

const openFailedAlert = "We couldn't open Instagram. Please message @sassynary with your order ID %s."

var (
	ErrWrongState       = errors.New("checkout is not in the required state")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrShippingRequired = errors.New("shipping details are required")
	ErrPaymentRequired  = errors.New("payment method is required")
)

type Config struct {
	// PaymentStep inserts collecting_payment between shipping and submit.
	PaymentStep           bool
	CODSurcharge          decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	DMLink                string
}

func DefaultConfig() Config {
	return Config{
		PaymentStep:  true,
		CODSurcharge: decimal.RequireFromString("49.00"),
		DMLink:       DefaultDMLink,
	}
}

// Profile is what is known about the signed-in customer. Empty for guests.
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
}

type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Surcharge   decimal.Decimal `json:"surcharge"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

type Result struct {
	OrderID     string          `json:"order_id"`
	Summary     string          `json:"summary"`
	DMLink      string          `json:"dm_link"`
	Total       decimal.Decimal `json:"total"`
	ClipboardOK bool            `json:"clipboard_ok"`
	// Alert is set only when the messaging link could not be opened.
	Alert string `json:"alert,omitempty"`
}

// OrderWriter persists a submitted order. Failures come back as an Outcome,
// never as an error.
type OrderWriter interface {
	PlaceOrder(ctx context.Context, rec order.Record) syncbridge.Outcome
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, orderID, eventType string, data any) error
}

// Session is one customer's checkout. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	cfg       Config
	cart      *cart.Cart
	orders    OrderWriter
	publisher EventPublisher
	metrics   *metrics.Metrics

	newOrderID func() string
	now        func() time.Time

	state        State
	profile      Profile
	shipping     order.ShippingInfo
	shippingDone bool
	method       order.PaymentMethod
	result       *Result
}

func NewSession(cfg Config, c *cart.Cart, orders OrderWriter, publisher EventPublisher, m *metrics.Metrics) *Session {
	if cfg.DMLink == "" {
		cfg.DMLink = DefaultDMLink
	}
	return &Session{
		cfg:        cfg,
		cart:       c,
		orders:     orders,
		publisher:  publisher,
		metrics:    m,
		newOrderID: order.GenerateOrderID,
		now:        time.Now,
		state:      StateCollectingShipping,
	}
}

// Start begins a fresh checkout, pre-filling the form from profile.
func (s *Session) Start(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(p)
}

// Reset returns to collecting_shipping, keeping the profile.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(s.profile)
}

func (s *Session) resetLocked(p Profile) {
	first, last, _ := strings.Cut(strings.TrimSpace(p.DisplayName), " ")
	s.profile = p
	s.state = StateCollectingShipping
	s.shipping = order.ShippingInfo{
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     p.Email,
	}
	s.shippingDone = false
	s.method = ""
	s.result = nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Shipping() order.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Session) PaymentMethod() order.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// LastResult is the result of the submission that moved the session to succeeded.
func (s *Session) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// SubmitShipping validates and stores the shipping form. On failure the state
// is unchanged and the error is a *ValidationError.
func (s *Session) SubmitShipping(info order.ShippingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCollectingShipping && s.state != StateCollectingPayment {
		return fmt.Errorf("%w: cannot edit shipping while %s", ErrWrongState, s.state)
	}
	if err := ValidateShipping(info); err != nil {
		return err
	}

	s.shipping = trimShipping(info)
	s.shippingDone = true
	if s.cfg.PaymentStep {
		s.state = StateCollectingPayment
	}
	return nil
}

// SelectPayment records the payment method label. Nothing is charged.
func (s *Session) SelectPayment(method order.PaymentMethod, details PaymentDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.PaymentStep || s.state != StateCollectingPayment {
		return fmt.Errorf("%w: payment is not being collected", ErrWrongState)
	}
	if err := ValidatePayment(method, details); err != nil {
		return err
	}
	s.method = method
	return nil
}

// Quote prices the current cart with the chosen method's surcharge.
func (s *Session) Quote() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteLocked(s.cart.Total())
}

func (s *Session) quoteLocked(subtotal decimal.Decimal) Quote {
	q := Quote{Subtotal: subtotal, Surcharge: decimal.Zero, ShippingFee: decimal.Zero}
	if s.method == order.PaymentCOD {
		q.Surcharge = s.cfg.CODSurcharge
	}
	if s.cfg.ShippingFee.IsPositive() {
		free := s.cfg.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.cfg.FreeShippingThreshold)
		if !free {
			q.ShippingFee = s.cfg.ShippingFee
		}
	}
	q.Total = q.Subtotal.Add(q.Surcharge).Add(q.ShippingFee)
	return q
}

// Submit places the order. It fails only when the session is not ready or the
// cart is empty; persistence and handoff problems are absorbed.
func (s *Session) Submit(ctx context.Context, h Handoff) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return Result{}, err
	}
	snap := s.cart.Snapshot()
	if snap.IsEmpty() {
		return Result{}, ErrEmptyCart
	}

	s.state = StateSubmitting
	orderID := s.newOrderID()
	quote := s.quoteLocked(snap.Total)

	rec, ok := s.persist(ctx, orderID, snap.Lines, quote)
	if ok {
		s.publish(ctx, rec)
	}

	res := Result{
		OrderID: orderID,
		Summary: RenderSummary(orderID, snap.Lines, quote, s.method, s.shipping),
		DMLink:  s.cfg.DMLink,
		Total:   quote.Total,
	}
	s.handoff(ctx, h, &res)

	s.cart.Clear()
	s.state = StateSucceeded
	s.result = &res
	s.metrics.CheckoutSubmitted(string(s.method))
	log.Printf("[Checkout] Order %s submitted for %s (total %s)", orderID, s.userIDLocked(), Rupees(quote.Total))
	return res, nil
}

func (s *Session) readyLocked() error {
	if s.cfg.PaymentStep {
		if s.state != StateCollectingPayment {
			return fmt.Errorf("%w: submit requires %s, session is %s", ErrWrongState, StateCollectingPayment, s.state)
		}
		if s.method == "" {
			return ErrPaymentRequired
		}
		return nil
	}
	if s.state != StateCollectingShipping {
		return fmt.Errorf("%w: submit requires %s, session is %s", ErrWrongState, StateCollectingShipping, s.state)
	}
	if !s.shippingDone {
		return ErrShippingRequired
	}
	return nil
}

// persist assembles the record and writes it. Any failure, including a panic,
// is logged and swallowed; ok reports whether a record was assembled.
func (s *Session) persist(ctx context.Context, orderID string, lines []cart.Line, q Quote) (rec order.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Checkout] Recovered while saving order %s: %v", orderID, r)
		}
	}()

	rec, err := order.NewRecord(order.Params{
		OrderID:       orderID,
		UserID:        s.userIDLocked(),
		Lines:         lines,
		Shipping:      s.shipping,
		PaymentMethod: s.method,
		Surcharge:     q.Surcharge,
		ShippingFee:   q.ShippingFee,
		CreatedAt:     s.now(),
	})
	if err != nil {
		log.Printf("[Checkout] Could not assemble order %s: %v", orderID, err)
		return order.Record{}, false
	}
	ok = true

	if out := s.orders.PlaceOrder(ctx, rec); out.Fallback() {
		log.Printf("[Checkout] Order %s kept in local storage: %v", orderID, out.Err)
	}
	return rec, ok
}

func (s *Session) publish(ctx context.Context, rec order.Record) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, rec.OrderID, order.EventOrderPlaced, rec.PlacedEvent()); err != nil {
		log.Printf("[Checkout] Failed to publish %s for %s: %v", order.EventOrderPlaced, rec.OrderID, err)
	}
}

// handoff copies the summary, then opens the link whatever the copy did.
func (s *Session) handoff(ctx context.Context, h Handoff, res *Result) {
	if h == nil {
		return
	}
	if err := h.Copy(ctx, res.Summary); err != nil {
		log.Printf("[Checkout] Clipboard write for %s failed: %v", res.OrderID, err)
		s.metrics.HandoffFailed("copy")
	} else {
		res.ClipboardOK = true
	}
	if err := h.Open(ctx, res.DMLink); err != nil {
		log.Printf("[Checkout] Opening %s for %s failed: %v", res.DMLink, res.OrderID, err)
		s.metrics.HandoffFailed("open")
		res.Alert = fmt.Sprintf(openFailedAlert, res.OrderID)
	}
}

func (s *Session) userIDLocked() string {
	if s.profile.UserID == "" {
		return order.GuestUserID
	}
	return s.profile.UserID
}

func trimShipping(info order.ShippingInfo) order.ShippingInfo {
	return order.ShippingInfo{
		FirstName:  strings.TrimSpace(info.FirstName),
		LastName:   strings.TrimSpace(info.LastName),
		Email:      strings.TrimSpace(info.Email),
		Phone:      strings.TrimSpace(info.Phone),
		Address:    strings.TrimSpace(info.Address),
		City:       strings.TrimSpace(info.City),
		State:      strings.TrimSpace(info.State),
		PostalCode: strings.TrimSpace(info.PostalCode),
	}
}
