package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/notehub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "s3cret" {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok", "userId": "u1"})
	})
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok2", "userId": "u2"})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return httptest.NewServer(mux)
}

func TestSignIn_StoresSessionAndNotifies(t *testing.T) {
	srv := newAuthStub(t)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)

	var events []*Session
	unsubscribe := api.OnSessionChange(func(s *Session) {
		events = append(events, s)
	})
	defer unsubscribe()

	require.NoError(t, api.SignIn(context.Background(), "alice@example.com", "s3cret"))

	session := api.Session()
	require.NotNil(t, session)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "u1", session.UserID)

	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].UserID)
}

func TestSignIn_BadCredentials(t *testing.T) {
	srv := newAuthStub(t)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)

	err := api.SignIn(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, api.Session(), "failed sign-in must not leave a session behind")
}

func TestSignUp_StoresSession(t *testing.T) {
	srv := newAuthStub(t)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)
	require.NoError(t, api.SignUp(context.Background(), "bob@example.com", "pw"))

	session := api.Session()
	require.NotNil(t, session)
	assert.Equal(t, "u2", session.UserID)
}

func TestSignOut_ClearsSessionAndNotifies(t *testing.T) {
	srv := newAuthStub(t)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)
	require.NoError(t, api.SignIn(context.Background(), "alice@example.com", "s3cret"))

	var last *Session
	gotEvent := false
	api.OnSessionChange(func(s *Session) {
		last = s
		gotEvent = true
	})

	require.NoError(t, api.SignOut(context.Background()))
	assert.Nil(t, api.Session())
	assert.True(t, gotEvent)
	assert.Nil(t, last)
}

func TestNoteOperations_RequireSession(t *testing.T) {
	api := NewAPI("http://localhost:0", nil)

	_, err := api.ListNotes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = api.CreateNote(context.Background(), "A", "B", nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, api.UpdateNote(context.Background(), "n1", "A", "B", nil), ErrUnauthenticated)
	assert.ErrorIs(t, api.DeleteNote(context.Background(), "n1"), ErrUnauthenticated)
	assert.ErrorIs(t, api.SignOut(context.Background()), ErrUnauthenticated)
}

func TestCreateNote_SendsBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok", "userId": "u1"})
	})
	mux.HandleFunc("/api/notes", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Note{ID: "n1", Title: "A", Content: "B", Tags: []string{"x"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)
	require.NoError(t, api.SignIn(context.Background(), "a@b.c", "pw"))

	note, err := api.CreateNote(context.Background(), "A", "B", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "n1", note.ID)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestUpdateNote_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok", "userId": "u1"})
	})
	mux.HandleFunc("/api/notes/n1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "note not found", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := NewAPI(srv.URL, nil)
	require.NoError(t, api.SignIn(context.Background(), "a@b.c", "pw"))

	err := api.UpdateNote(context.Background(), "n1", "A", "B", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
