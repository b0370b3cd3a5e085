package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/example/sassynary-shop/internal/api/middleware"
	"github.com/example/sassynary-shop/internal/auth"
)

const (
	refreshTokenCookie = "refresh_token"
	refreshCookiePath  = "/api/auth/refresh"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	accounts   *auth.Accounts
	jwtService *auth.JWTService
}

func NewAuthHandlers(accounts *auth.Accounts, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{accounts: accounts, jwtService: jwtService}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User    auth.User `json:"user"`
	Message string    `json:"message,omitempty"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		respondJSONError(w, "Email already registered", http.StatusConflict)
		return
	case errors.Is(err, auth.ErrInvalidEmail):
		respondValidation(w, map[string]string{"email": err.Error()})
		return
	case errors.Is(err, auth.ErrInvalidName):
		respondValidation(w, map[string]string{"display_name": err.Error()})
		return
	case errors.Is(err, auth.ErrPasswordTooShort):
		respondValidation(w, map[string]string{"password": err.Error()})
		return
	case err != nil:
		log.Printf("[API] Register failed: %v", err)
		respondJSONError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	if err := h.setAuthCookies(w, r, user); err != nil {
		respondJSONError(w, "Failed to issue tokens", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Message: "Registration successful"})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[API] Login failed: %v", err)
		respondJSONError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	if err := h.setAuthCookies(w, r, user); err != nil {
		respondJSONError(w, "Failed to issue tokens", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, AuthResponse{User: user, Message: "Login successful"})
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		respondJSONError(w, "No refresh token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(cookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.accounts.Get(r.Context(), userID)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "User not found", http.StatusUnauthorized)
		return
	}

	if err := h.setAuthCookies(w, r, user); err != nil {
		respondJSONError(w, "Failed to issue tokens", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Token refreshed"})
}

// Me returns the current authenticated user's information
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, r *http.Request, user auth.User) error {
	accessToken, accessExpiry, err := h.jwtService.GenerateAccessToken(user)
	if err != nil {
		return err
	}
	refreshToken, refreshExpiry, err := h.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     refreshCookiePath,
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, &http.Cookie{Name: middleware.AccessTokenCookie, Path: "/", Expires: expired, MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Path: refreshCookiePath, Expires: expired, MaxAge: -1, HttpOnly: true})
}
