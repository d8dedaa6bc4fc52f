// Package http provides HTTP handlers for note CRUD operations.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/notehub/internal/middleware"
	"github.com/avolkov/notehub/internal/models"
	"github.com/go-chi/chi/v5"
)

// NoteService defines the interface for note operations required by the NoteHandler.
type NoteService interface {
	// List returns all notes owned by the user.
	List(ctx context.Context, userID string) ([]models.Note, error)
	// Create writes a new note owned by the user.
	Create(ctx context.Context, userID, title, content string, tags []string) (*models.Note, error)
	// Update overwrites title/content/tags of the user's note.
	Update(ctx context.Context, userID, id, title, content string, tags []string) error
	// Delete removes the user's note permanently.
	Delete(ctx context.Context, userID, id string) error
}

// NoteHandler handles HTTP requests for note CRUD.
type NoteHandler struct {
	NoteService NoteService
}

// NoteRequest represents the JSON payload for creating or updating a note.
type NoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// List handles GET /api/notes requests, returning every note owned by the
// authenticated user. The result order is whatever the store returns.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	notes, err := h.NoteService.List(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

// Create handles POST /api/notes requests. Title and content must be
// non-empty; tags may be empty. Responds with the stored note, including the
// server-assigned id and timestamps.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	req, ok := decodeNote(w, r)
	if !ok {
		return
	}

	note, err := h.NoteService.Create(r.Context(), userID, req.Title, req.Content, req.Tags)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(note)
}

// Update handles PUT /api/notes/{id} requests. A note that does not exist or
// belongs to another user yields 404; ownership is never disclosed.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	req, ok := decodeNote(w, r)
	if !ok {
		return
	}

	err := h.NoteService.Update(r.Context(), userID, id, req.Title, req.Content, req.Tags)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/notes/{id} requests with the same ownership rule
// as Update.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := h.NoteService.Delete(r.Context(), userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func decodeNote(w http.ResponseWriter, r *http.Request) (NoteRequest, bool) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return req, false
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return req, true
}
