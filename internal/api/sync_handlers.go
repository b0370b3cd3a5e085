package api

import (
	"net/http"
	"strconv"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/domain/order"
	"github.com/example/sassynary-shop/internal/syncbridge"
)

// Sync Bridge writes never fail the request; the response says which path
// the write took so the client can show an "offline" hint.

type WishlistResponse struct {
	ProductIDs []int           `json:"product_ids"`
	ProductID  int             `json:"product_id,omitempty"`
	Saved      bool            `json:"saved"`
	Path       syncbridge.Path `json:"path,omitempty"`
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.wishlist.Load(r.Context(), userID)
	respondJSON(w, http.StatusOK, WishlistResponse{ProductIDs: h.wishlist.List(userID)})
}

func (h *Handlers) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	if _, exists := h.catalog.Get(productID); !exists {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}

	userID := middleware.GetUserID(r.Context())
	saved, outcome := h.wishlist.Toggle(r.Context(), userID, productID)
	respondJSON(w, http.StatusOK, WishlistResponse{
		ProductIDs: h.wishlist.List(userID),
		ProductID:  productID,
		Saved:      saved,
		Path:       outcome.Path,
	})
}

// AlertPriceDrop asks to be told when a product gets cheaper.
func (h *Handlers) AlertPriceDrop(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	product, exists := h.catalog.Get(productID)
	if !exists {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}

	signal, outcome := h.signals.Record(r.Context(), middleware.GetUserID(r.Context()), syncbridge.SignalPriceDropAlert, product)
	respondJSON(w, http.StatusOK, map[string]any{
		"alert": signal,
		"path":  outcome.Path,
	})
}

func (h *Handlers) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.addresses.Load(r.Context(), userID)
	respondJSON(w, http.StatusOK, map[string]any{"addresses": h.addresses.List(userID)})
}

func (h *Handlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req syncbridge.Address
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if fields := req.Validate(); fields != nil {
		respondValidation(w, fields)
		return
	}

	userID := middleware.GetUserID(r.Context())
	saved, outcome := h.addresses.Add(r.Context(), userID, req)
	respondJSON(w, http.StatusOK, map[string]any{
		"address":   saved,
		"addresses": h.addresses.List(userID),
		"path":      outcome.Path,
	})
}

func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	outcome := h.addresses.Delete(r.Context(), userID, r.PathValue("id"))
	respondJSON(w, http.StatusOK, map[string]any{
		"addresses": h.addresses.List(userID),
		"path":      outcome.Path,
	})
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": h.reviews.Recent(r.Context(), limit)})
}

// PendingOrders lists the caller's orders that never reached the remote store.
func (h *Handlers) PendingOrders(w http.ResponseWriter, r *http.Request) {
	pending := h.orders.Pending(r.Context(), middleware.GetUserID(r.Context()))
	if pending == nil {
		pending = []order.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": pending})
}

// SubmitReview is open to guests.
func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req syncbridge.Review
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if fields := req.Validate(); fields != nil {
		respondValidation(w, fields)
		return
	}

	review, outcome := h.reviews.Submit(r.Context(), middleware.SessionID(r.Context()), req)
	respondJSON(w, http.StatusOK, map[string]any{
		"review": review,
		"path":   outcome.Path,
	})
}
