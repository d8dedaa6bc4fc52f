package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/avolkov/notehub/internal/models"
)

// ErrUnauthenticated is returned by operations that require a signed-in session.
var ErrUnauthenticated = errors.New("not signed in")

// Session identifies a signed-in user on the client side.
type Session struct {
	Token  string
	UserID string
}

// API talks to the NoteHub server. It also acts as the identity provider for
// the UI: session-state listeners are notified on every sign-in and sign-out.
type API struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	session   *Session
	listeners []func(*Session)
}

// NewAPI constructs an API client for the given server base URL.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Session returns the current session, or nil when signed out.
func (a *API) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// OnSessionChange registers a listener invoked with the new session state on
// every sign-in (non-nil) and sign-out (nil). Returns an unsubscribe function.
func (a *API) OnSessionChange(fn func(*Session)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
	idx := len(a.listeners) - 1
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if idx < len(a.listeners) {
			a.listeners[idx] = nil
		}
	}
}

func (a *API) setSession(s *Session) {
	a.mu.Lock()
	a.session = s
	listeners := make([]func(*Session), len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(s)
		}
	}
}

// SignIn authenticates with email and password and stores the session.
func (a *API) SignIn(ctx context.Context, email, password string) error {
	return a.authenticate(ctx, "/api/login", email, password)
}

// SignUp creates an account with email and password and stores the session.
func (a *API) SignUp(ctx context.Context, email, password string) error {
	return a.authenticate(ctx, "/api/register", email, password)
}

func (a *API) authenticate(ctx context.Context, path, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed (%d)", resp.StatusCode)
	}

	var payload struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	a.setSession(&Session{Token: payload.Token, UserID: payload.UserID})
	return nil
}

// SignOut invalidates the session on the server and clears it locally. The
// local session is cleared even when the server call fails; the token will
// age out server-side.
func (a *API) SignOut(ctx context.Context) error {
	session := a.Session()
	if session == nil {
		return ErrUnauthenticated
	}

	err := a.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	a.setSession(nil)
	return err
}

// ListNotes fetches the current note set for the signed-in user.
func (a *API) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := a.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote writes a new note and returns it as stored by the server.
func (a *API) CreateNote(ctx context.Context, title, content string, tags []string) (*models.Note, error) {
	var note models.Note
	payload := map[string]any{"title": title, "content": content, "tags": tags}
	if err := a.do(ctx, http.MethodPost, "/api/notes", payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote overwrites title, content and tags of the given note.
func (a *API) UpdateNote(ctx context.Context, id, title, content string, tags []string) error {
	payload := map[string]any{"title": title, "content": content, "tags": tags}
	return a.do(ctx, http.MethodPut, "/api/notes/"+id, payload, nil)
}

// DeleteNote removes the note permanently.
func (a *API) DeleteNote(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/notes/"+id, nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, payload, out any) error {
	session := a.Session()
	if session == nil {
		return ErrUnauthenticated
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: server returned %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
