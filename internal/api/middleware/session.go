package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	GuestSessionCookie = "guest_session"
	guestSessionMaxAge = 30 * 24 * time.Hour
)

// GuestSession gives anonymous visitors a stable session ID so their cart and
// checkout survive between requests. Signed-in users are keyed by user ID.
func GuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := GetUserID(r.Context()); userID != "" {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionContextKey, userID)))
			return
		}

		var sessionID string
		if cookie, err := r.Cookie(GuestSessionCookie); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				sessionID = cookie.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     GuestSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(guestSessionMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionContextKey, sessionID)))
	})
}

// SessionID returns the user ID for signed-in requests, else the guest session ID.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionContextKey).(string); ok {
		return id
	}
	return GetUserID(ctx)
}
