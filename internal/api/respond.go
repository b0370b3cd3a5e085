package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/sassynary-shop/internal/checkout"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation renders inline form errors.
func respondValidation(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "please fix the highlighted fields",
		"fields": fields,
	})
}

// respondCheckoutError maps checkout errors to statuses.
func respondCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, verr.Fields)
	case errors.Is(err, checkout.ErrWrongState),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrShippingRequired),
		errors.Is(err, checkout.ErrPaymentRequired):
		respondJSONError(w, err.Error(), http.StatusConflict)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses a numeric path value such as {id}.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	return id, err == nil
}
