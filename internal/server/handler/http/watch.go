package http

import (
	"net/http"

	"github.com/avolkov/notehub/internal/middleware"
	"github.com/avolkov/notehub/internal/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Snapshots is the subscription side of the live-query hub.
type Snapshots interface {
	// Subscribe returns a delivery channel for the user's snapshots and an
	// unsubscribe function that closes it.
	Subscribe(userID string) (<-chan []models.Note, func())
}

// WatchHandler serves GET /api/notes/watch: a WebSocket on which the full
// current note set of the authenticated user is delivered on connect and
// redelivered after every mutation by any of the user's sessions.
type WatchHandler struct {
	NoteService NoteService
	Snapshots   Snapshots
	Logger      *zap.Logger
}

// Watch upgrades the connection and streams snapshots until the client goes
// away. The subscription is registered before the initial read so a mutation
// racing the connect is not lost.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	snapshots, unsubscribe := h.Snapshots.Subscribe(userID)
	defer unsubscribe()

	initial, err := h.NoteService.List(r.Context(), userID)
	if err != nil {
		h.Logger.Error("initial snapshot failed", zap.String("user", userID), zap.Error(err))
		return
	}
	if initial == nil {
		initial = []models.Note{}
	}
	if err := conn.WriteJSON(initial); err != nil {
		return
	}

	// Reader goroutine: the client never sends data, but reading is the only
	// way to learn the connection died.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case notes, ok := <-snapshots:
			if !ok {
				return
			}
			if notes == nil {
				notes = []models.Note{}
			}
			if err := conn.WriteJSON(notes); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
