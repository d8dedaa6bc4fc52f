package service

import (
	"sync"

	"github.com/avolkov/notehub/internal/models"
)

// snapshotBuffer bounds each subscriber channel. A subscriber that falls this
// far behind starts losing intermediate snapshots; only the latest matters.
const snapshotBuffer = 8

// Hub fans out full note snapshots to live-query subscribers, keyed by user.
// It decouples the mutation path from slow consumers: Publish never blocks.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan []models.Note]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan []models.Note]struct{})}
}

// Subscribe registers a live-query subscriber for the user's notes and
// returns the delivery channel plus an unsubscribe function. The channel is
// closed on unsubscribe; callers must stop reading after calling it.
func (h *Hub) Subscribe(userID string) (<-chan []models.Note, func()) {
	ch := make(chan []models.Note, snapshotBuffer)

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[chan []models.Note]struct{})
		h.subs[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, userID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish delivers the snapshot to every subscriber of the user. A subscriber
// whose buffer is full has its oldest pending snapshot dropped first, so the
// latest state always gets through.
func (h *Hub) Publish(userID string, notes []models.Note) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[userID] {
		for {
			select {
			case ch <- notes:
			default:
				select {
				case <-ch:
					continue
				default:
				}
			}
			break
		}
	}
}

// Subscribers reports how many live subscriptions the user currently has.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
