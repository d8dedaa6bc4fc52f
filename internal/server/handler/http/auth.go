// Package http provides HTTP handlers for user authentication.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/notehub/internal/middleware"
	"github.com/avolkov/notehub/internal/models"
	"github.com/avolkov/notehub/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates an account and signs it in.
	Register(ctx context.Context, email, password string) (*models.Session, error)
	// Login verifies credentials and issues a session.
	Login(ctx context.Context, email, password string) (*models.Session, error)
	// Logout invalidates a bearer token.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to a user id.
	Authenticate(ctx context.Context, token string) (string, error)
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// CredentialsRequest represents the JSON payload for registration and login.
type CredentialsRequest struct {
	// Email is the account email.
	Email string `json:"email"`
	// Password is the account password.
	Password string `json:"password"`
}

// SessionResponse is returned on successful registration or login.
type SessionResponse struct {
	// Token is the issued bearer token.
	Token string `json:"token"`
	// UserID identifies the signed-in user.
	UserID string `json:"userId"`
}

// Register handles account-creation requests.
// It expects a JSON body with non-empty "email" and "password" fields and
// signs the new account in, returning the issued token. Credential detail is
// never surfaced: a taken email returns 409, everything else a generic error.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeSession(w, session)
}

// Login handles sign-in requests.
// All credential failures collapse into a single 401 with a generic message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeSession(w, session)
}

// Logout invalidates the caller's bearer token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeSession(w http.ResponseWriter, session *models.Session) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SessionResponse{
		Token:  session.Token,
		UserID: session.UserID,
	})
}
