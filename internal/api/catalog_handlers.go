package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/checkout"
	"github.com/example/sassynary-shop/internal/domain/catalog"
	"github.com/example/sassynary-shop/internal/syncbridge"
)

// CategoryResponse is one navigation entry with its sub-categories.
type CategoryResponse struct {
	Slug          string             `json:"slug"`
	ProductCount  int                `json:"product_count"`
	SubCategories []CategoryResponse `json:"sub_categories,omitempty"`
}

// ListProducts supports ?category=, ?q= and ?new=true, combined with AND.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products := h.catalog.All()
	if term := strings.TrimSpace(q.Get("q")); term != "" {
		products = h.catalog.Search(term)
	}
	if category := q.Get("category"); category != "" {
		products = slices.DeleteFunc(products, func(p catalog.Product) bool { return p.Category != category })
	}
	if q.Get("new") == "true" {
		products = slices.DeleteFunc(products, func(p catalog.Product) bool { return !p.IsNew })
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	product, ok := h.catalog.Get(id)
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	h.recordSignal(r, syncbridge.SignalView, product)
	respondJSON(w, http.StatusOK, product)
}

// ProductInquiry hands a one-product DM message to the client, the "Order via
// Instagram" path that skips the cart.
func (h *Handlers) ProductInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	product, ok := h.catalog.Get(id)
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	handoff := checkout.NewResponseHandoff()
	inq, err := h.checkout.Inquire(r.Context(), handoff, product, quantity)
	if err != nil {
		respondValidation(w, map[string]string{"quantity": "must be at least 1"})
		return
	}
	copyText, openURL := handoff.Deliver()
	respondJSON(w, http.StatusOK, InquiryResponse{Inquiry: inq, CopyText: copyText, OpenURL: openURL})
}

// InquiryResponse tells the client what to copy and which link to open.
type InquiryResponse struct {
	checkout.Inquiry
	CopyText string `json:"copy_text"`
	OpenURL  string `json:"open_url"`
}

// recordSignal notes a signed-in user's interaction. Guests leave no signals.
func (h *Handlers) recordSignal(r *http.Request, kind syncbridge.SignalKind, p catalog.Product) {
	userID := middleware.GetUserID(r.Context())
	if h.signals == nil || userID == "" {
		return
	}
	h.signals.Record(r.Context(), userID, kind, p)
}

// ListCategories groups the catalog into categories and sub-categories, in
// first-seen order.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	var roots []CategoryResponse
	index := make(map[string]int)

	for _, p := range h.catalog.All() {
		i, ok := index[p.Category]
		if !ok {
			i = len(roots)
			index[p.Category] = i
			roots = append(roots, CategoryResponse{Slug: p.Category})
		}
		roots[i].ProductCount++

		if p.SubCategory == "" {
			continue
		}
		subs := roots[i].SubCategories
		j := slices.IndexFunc(subs, func(c CategoryResponse) bool { return c.Slug == p.SubCategory })
		if j < 0 {
			subs = append(subs, CategoryResponse{Slug: p.SubCategory})
			j = len(subs) - 1
		}
		subs[j].ProductCount++
		roots[i].SubCategories = subs
	}

	respondJSON(w, http.StatusOK, roots)
}
