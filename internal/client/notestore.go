package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/avolkov/notehub/internal/models"
	"github.com/gorilla/websocket"
)

// NoteStore is the live note store adapter: mutations go through the API,
// reads come back solely through the live subscription. The UI never applies
// optimistic updates.
type NoteStore struct {
	api *API
}

// NewNoteStore wraps the API client with live-query semantics.
func NewNoteStore(api *API) *NoteStore {
	return &NoteStore{api: api}
}

// Create writes a new note for the signed-in user.
func (s *NoteStore) Create(ctx context.Context, title, content string, tags []string) error {
	_, err := s.api.CreateNote(ctx, title, content, tags)
	return err
}

// Update overwrites title, content and tags of the note.
func (s *NoteStore) Update(ctx context.Context, id, title, content string, tags []string) error {
	return s.api.UpdateNote(ctx, id, title, content, tags)
}

// Delete removes the note permanently.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	return s.api.DeleteNote(ctx, id)
}

// Subscribe opens the live query for the signed-in user. onSnapshot is called
// with the full note set on connect and again after every change; onClosed is
// called once when the stream ends for any reason other than Unsubscribe, so
// the UI can surface connectivity loss. The returned unsubscribe function
// closes the stream and releases the reader goroutine.
func (s *NoteStore) Subscribe(ctx context.Context, onSnapshot func([]models.Note), onClosed func(error)) (func(), error) {
	session := s.api.Session()
	if session == nil {
		return nil, ErrUnauthenticated
	}

	wsURL, err := watchURL(s.api.baseURL)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+session.Token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("subscribe: server returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	closed := make(chan struct{})
	go func() {
		for {
			var notes []models.Note
			if err := conn.ReadJSON(&notes); err != nil {
				select {
				case <-closed:
					// Deliberate unsubscribe, stay silent.
				default:
					if onClosed != nil {
						onClosed(err)
					}
				}
				return
			}
			onSnapshot(notes)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(closed)
			conn.Close()
		})
	}
	return unsubscribe, nil
}

func watchURL(baseURL string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/notes/watch", nil
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/notes/watch", nil
	default:
		return "", fmt.Errorf("unsupported server url %q", baseURL)
	}
}
