package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/domain/customorder"
	"github.com/example/sassynary-shop/internal/syncbridge"
)

const maxCustomOrderUpload = 10 << 20

// CustomOrderResponse carries the filed request and the pre-filled mail link
// the client opens next, whichever path the write took.
type CustomOrderResponse struct {
	Request customorder.Request `json:"request"`
	Path    syncbridge.Path     `json:"path"`
	OpenURL string              `json:"open_url"`
}

// SubmitCustomOrder takes a multipart form: name, email, phone, type, message
// and an optional "image" file.
func (h *Handlers) SubmitCustomOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCustomOrderUpload)
	if err := r.ParseMultipartForm(maxCustomOrderUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondJSONError(w, "Reference image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondJSONError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	req := customorder.Request{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Kind:    customorder.Kind(r.FormValue("type")),
		Message: r.FormValue("message"),
	}.Normalized()
	if fields := req.Validate(); fields != nil {
		respondValidation(w, fields)
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		req.ImageURL = h.customOrders.AttachImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		file.Close()
	} else if !errors.Is(err, http.ErrMissingFile) {
		log.Printf("[API] Ignoring unreadable reference image: %v", err)
	}

	saved, outcome := h.customOrders.Submit(r.Context(), middleware.SessionID(r.Context()), req)
	respondJSON(w, http.StatusOK, CustomOrderResponse{
		Request: saved,
		Path:    outcome.Path,
		OpenURL: saved.MailtoLink(h.customOrderEmail),
	})
}
