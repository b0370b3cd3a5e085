package api

import (
	"net/http"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/checkout"
	"github.com/example/sassynary-shop/internal/domain/order"
)

// CheckoutResponse is the session as the checkout form sees it.
type CheckoutResponse struct {
	State         checkout.State      `json:"state"`
	PaymentStep   bool                `json:"payment_step"`
	Shipping      order.ShippingInfo  `json:"shipping"`
	PaymentMethod order.PaymentMethod `json:"payment_method,omitempty"`
	Quote         checkout.Quote      `json:"quote"`
	Result        *checkout.Result    `json:"result,omitempty"`
}

// SubmitResponse tells the client what to copy and which link to open.
type SubmitResponse struct {
	checkout.Result
	CopyText string `json:"copy_text"`
	OpenURL  string `json:"open_url"`
}

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.checkoutView(h.checkoutSession(r)))
}

func (h *Handlers) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req order.ShippingInfo
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := h.checkoutSession(r)
	if err := sess.SubmitShipping(req); err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView(sess))
}

func (h *Handlers) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method  order.PaymentMethod     `json:"method"`
		Details checkout.PaymentDetails `json:"details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := h.checkoutSession(r)
	if err := sess.SelectPayment(req.Method, req.Details); err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.checkoutView(sess))
}

func (h *Handlers) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	handoff := checkout.NewResponseHandoff()

	res, err := h.checkoutSession(r).Submit(r.Context(), handoff)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}

	copyText, openURL := handoff.Deliver()
	respondJSON(w, http.StatusOK, SubmitResponse{Result: res, CopyText: copyText, OpenURL: openURL})
}

func (h *Handlers) ResetCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.checkoutSession(r)
	sess.Reset()
	respondJSON(w, http.StatusOK, h.checkoutView(sess))
}

func (h *Handlers) checkoutSession(r *http.Request) *checkout.Session {
	profile := checkout.Profile{}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		profile = checkout.Profile{UserID: claims.UserID, DisplayName: claims.DisplayName, Email: claims.Email}
	}
	return h.checkout.ForSession(middleware.SessionID(r.Context()), profile)
}

func (h *Handlers) checkoutView(sess *checkout.Session) CheckoutResponse {
	view := CheckoutResponse{
		State:         sess.State(),
		PaymentStep:   h.checkout.Config().PaymentStep,
		Shipping:      sess.Shipping(),
		PaymentMethod: sess.PaymentMethod(),
		Quote:         sess.Quote(),
	}
	if res, ok := sess.LastResult(); ok {
		view.Result = &res
	}
	return view
}
