package api

import (
	"errors"
	"net/http"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/checkout"
	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/catalog"
	"github.com/example/sassynary-shop/internal/metrics"
	"github.com/example/sassynary-shop/internal/syncbridge"
)

type Handlers struct {
	catalog      *catalog.Catalog
	carts        *cart.Service
	wishlist     *syncbridge.Wishlist
	addresses    *syncbridge.AddressBook
	reviews      *syncbridge.ReviewWall
	orders       *syncbridge.Orders
	signals      *syncbridge.Signals
	customOrders *syncbridge.CustomOrders
	checkout     *checkout.Service

	customOrderEmail string
}

type HandlersConfig struct {
	Catalog      *catalog.Catalog
	Carts        *cart.Service
	Wishlist     *syncbridge.Wishlist
	Addresses    *syncbridge.AddressBook
	Reviews      *syncbridge.ReviewWall
	Orders       *syncbridge.Orders
	Signals      *syncbridge.Signals
	CustomOrders *syncbridge.CustomOrders
	Checkout     *checkout.Service
	Metrics      *metrics.Metrics

	// CustomOrderEmail receives custom order requests; empty uses customorder.DefaultEmail.
	CustomOrderEmail string
}

// NewHandlers also counts every cart event in cfg.Metrics.
func NewHandlers(cfg HandlersConfig) *Handlers {
	if cfg.Carts != nil {
		m := cfg.Metrics
		cfg.Carts.Subscribe(func(_ string, e cart.Event) {
			m.CartEvent(e.EventType())
		})
	}
	return &Handlers{
		catalog:          cfg.Catalog,
		carts:            cfg.Carts,
		wishlist:         cfg.Wishlist,
		addresses:        cfg.Addresses,
		reviews:          cfg.Reviews,
		orders:           cfg.Orders,
		signals:          cfg.Signals,
		customOrders:     cfg.CustomOrders,
		checkout:         cfg.Checkout,
		customOrderEmail: cfg.CustomOrderEmail,
	}
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionCart(r).Snapshot())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int  `json:"product_id"`
		Quantity  *int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, ok := h.catalog.Get(req.ProductID)
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c := h.sessionCart(r)
	if err := c.AddItem(product, quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondValidation(w, map[string]string{"quantity": "must be at least 1"})
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.recordSignal(r, syncbridge.SignalCartAdd, product)
	respondJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c := h.sessionCart(r)
	c.SetQuantity(productID, req.Quantity)
	respondJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	c := h.sessionCart(r)
	c.RemoveItem(productID)
	respondJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(r)
	c.Clear()
	respondJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handlers) sessionCart(r *http.Request) *cart.Cart {
	return h.carts.ForSession(middleware.SessionID(r.Context()))
}
