package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/notehub/internal/models"
	handler "github.com/avolkov/notehub/internal/server/handler/http"
	"github.com/go-chi/chi/v5"
)

// fakeNoteService records calls and returns preconfigured results.
type fakeNoteService struct {
	listNotes []models.Note
	listErr   error

	created   *models.Note
	createErr error

	updateErr error
	deleteErr error

	receivedUserID string
	receivedID     string
	receivedTitle  string
	receivedTags   []string
}

func (f *fakeNoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	f.receivedUserID = userID
	return f.listNotes, f.listErr
}

func (f *fakeNoteService) Create(ctx context.Context, userID, title, content string, tags []string) (*models.Note, error) {
	f.receivedUserID = userID
	f.receivedTitle = title
	f.receivedTags = tags
	return f.created, f.createErr
}

func (f *fakeNoteService) Update(ctx context.Context, userID, id, title, content string, tags []string) error {
	f.receivedUserID = userID
	f.receivedID = id
	f.receivedTitle = title
	f.receivedTags = tags
	return f.updateErr
}

func (f *fakeNoteService) Delete(ctx context.Context, userID, id string) error {
	f.receivedUserID = userID
	f.receivedID = id
	return f.deleteErr
}

// withURLParam attaches a chi route parameter so handlers reading
// chi.URLParam see it outside a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestNoteHandler_List_EmptyIsJSONArray(t *testing.T) {
	fake := &fakeNoteService{}
	h := &handler.NoteHandler{NoteService: fake}

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("body = %q; want []", body)
	}
}

func TestNoteHandler_List_ServiceError(t *testing.T) {
	fake := &fakeNoteService{listErr: errors.New("db down")}
	h := &handler.NoteHandler{NoteService: fake}

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestNoteHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeNoteService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeNoteService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty title",
			body:         `{"title":"","content":"B"}`,
			service:      &fakeNoteService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty content",
			body:         `{"title":"A","content":""}`,
			service:      &fakeNoteService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "service error",
			body:         `{"title":"A","content":"B"}`,
			service:      &fakeNoteService{createErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name: "success",
			body: `{"title":"A","content":"B","tags":["x","y"]}`,
			service: &fakeNoteService{
				created: &models.Note{ID: "n1", Title: "A", Content: "B", Tags: []string{"x", "y"}},
			},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.NoteHandler{NoteService: tt.service}
			req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.Create(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", w.Code, tt.expectedCode)
			}
			if tt.expectedCode == http.StatusCreated {
				var note models.Note
				if err := json.NewDecoder(w.Body).Decode(&note); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if note.ID != "n1" {
					t.Errorf("note id = %q; want n1", note.ID)
				}
				if len(tt.service.receivedTags) != 2 {
					t.Errorf("service saw tags %v; want [x y]", tt.service.receivedTags)
				}
			}
		})
	}
}

func TestNoteHandler_Create_NilTagsBecomeEmpty(t *testing.T) {
	fake := &fakeNoteService{created: &models.Note{ID: "n1"}}
	h := &handler.NoteHandler{NoteService: fake}

	req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewBufferString(`{"title":"A","content":"B"}`))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if fake.receivedTags == nil {
		t.Error("expected non-nil tags slice")
	}
	if len(fake.receivedTags) != 0 {
		t.Errorf("tags = %v; want empty", fake.receivedTags)
	}
}

func TestNoteHandler_Update(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeNoteService
		expectedCode int
	}{
		{name: "success", service: &fakeNoteService{}, expectedCode: http.StatusOK},
		{name: "not found", service: &fakeNoteService{updateErr: sql.ErrNoRows}, expectedCode: http.StatusNotFound},
		{name: "service error", service: &fakeNoteService{updateErr: errors.New("db down")}, expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.NoteHandler{NoteService: tt.service}
			req := httptest.NewRequest(http.MethodPut, "/api/notes/n1", bytes.NewBufferString(`{"title":"A2","content":"B2"}`))
			req = withURLParam(req, "id", "n1")
			w := httptest.NewRecorder()

			h.Update(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", w.Code, tt.expectedCode)
			}
			if tt.expectedCode == http.StatusOK && tt.service.receivedID != "n1" {
				t.Errorf("service saw id %q; want n1", tt.service.receivedID)
			}
		})
	}
}

func TestNoteHandler_Delete(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeNoteService
		expectedCode int
	}{
		{name: "success", service: &fakeNoteService{}, expectedCode: http.StatusOK},
		{name: "not found", service: &fakeNoteService{deleteErr: sql.ErrNoRows}, expectedCode: http.StatusNotFound},
		{name: "service error", service: &fakeNoteService{deleteErr: errors.New("db down")}, expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.NoteHandler{NoteService: tt.service}
			req := httptest.NewRequest(http.MethodDelete, "/api/notes/n1", nil)
			req = withURLParam(req, "id", "n1")
			w := httptest.NewRecorder()

			h.Delete(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", w.Code, tt.expectedCode)
			}
		})
	}
}
