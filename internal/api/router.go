package api

import (
	"net/http"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/auth"
	"github.com/example/sassynary-shop/internal/metrics"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
	Metrics      *metrics.Metrics
	// RemoteConfigured reports whether the remote document store is in use.
	RemoteConfigured func() bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	h := cfg.Handlers
	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	authed := func(fn http.HandlerFunc) http.Handler { return requireAuth(fn) }

	// Catalog
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("POST /products/{id}/inquiry", h.ProductInquiry)

	// Cart
	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
	mux.HandleFunc("POST /cart/items", h.AddToCart)
	mux.HandleFunc("PUT /cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /cart/items/{id}", h.RemoveFromCart)

	// Wishlist and address book need an account
	mux.Handle("GET /wishlist", authed(h.GetWishlist))
	mux.Handle("POST /wishlist/{id}/toggle", authed(h.ToggleWishlist))
	mux.Handle("POST /wishlist/{id}/alert", authed(h.AlertPriceDrop))
	mux.Handle("GET /addresses", authed(h.ListAddresses))
	mux.Handle("POST /addresses", authed(h.AddAddress))
	mux.Handle("DELETE /addresses/{id}", authed(h.DeleteAddress))
	mux.Handle("GET /orders/pending", authed(h.PendingOrders))

	// Reviews
	mux.HandleFunc("GET /reviews", h.ListReviews)
	mux.HandleFunc("POST /reviews", h.SubmitReview)

	// Custom orders are open to guests
	mux.HandleFunc("POST /custom-orders", h.SubmitCustomOrder)

	// Checkout
	mux.HandleFunc("GET /checkout", h.GetCheckout)
	mux.HandleFunc("POST /checkout/shipping", h.SubmitShipping)
	mux.HandleFunc("POST /checkout/payment", h.SelectPayment)
	mux.HandleFunc("POST /checkout/submit", h.SubmitCheckout)
	mux.HandleFunc("POST /checkout/reset", h.ResetCheckout)

	// Auth
	a := cfg.AuthHandlers
	mux.HandleFunc("POST /api/auth/register", a.Register)
	mux.HandleFunc("POST /api/auth/login", a.Login)
	mux.HandleFunc("POST /api/auth/logout", a.Logout)
	mux.HandleFunc("POST /api/auth/refresh", a.Refresh)
	mux.Handle("GET /api/auth/me", authed(a.Me))

	// Ops
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		remote := cfg.RemoteConfigured != nil && cfg.RemoteConfigured()
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "remote_store": remote})
	})

	var handler http.Handler = mux
	handler = middleware.GuestSession(handler)
	handler = middleware.OptionalAuthMiddleware(cfg.JWTService)(handler)
	return middleware.Logging(handler)
}
