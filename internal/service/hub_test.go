package service_test

import (
	"testing"
	"time"

	"github.com/avolkov/notehub/internal/models"
	"github.com/avolkov/notehub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversToOwnerOnly(t *testing.T) {
	hub := service.NewHub()

	aliceCh, aliceStop := hub.Subscribe("alice")
	defer aliceStop()
	bobCh, bobStop := hub.Subscribe("bob")
	defer bobStop()

	hub.Publish("alice", []models.Note{{ID: "n1", UserID: "alice"}})

	select {
	case notes := <-aliceCh:
		require.Len(t, notes, 1)
		assert.Equal(t, "n1", notes[0].ID)
	case <-time.After(time.Second):
		t.Fatal("alice never received her snapshot")
	}

	select {
	case notes := <-bobCh:
		t.Fatalf("bob received alice's notes: %+v", notes)
	default:
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := service.NewHub()

	// Subscribe but never read.
	_, stop := hub.Subscribe("alice")
	defer stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("alice", []models.Note{{ID: "n1"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow consumer")
	}
}

func TestHub_SlowConsumerGetsLatestSnapshot(t *testing.T) {
	hub := service.NewHub()

	ch, stop := hub.Subscribe("alice")
	defer stop()

	// Overflow the buffer; old snapshots are dropped, not the new one.
	for i := 0; i < 50; i++ {
		hub.Publish("alice", []models.Note{{ID: "stale"}})
	}
	hub.Publish("alice", []models.Note{{ID: "latest"}})

	var last []models.Note
	for {
		select {
		case notes := <-ch:
			last = notes
			continue
		default:
		}
		break
	}
	require.NotNil(t, last)
	assert.Equal(t, "latest", last[0].ID)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := service.NewHub()

	ch, stop := hub.Subscribe("alice")
	require.Equal(t, 1, hub.Subscribers("alice"))

	stop()
	assert.Equal(t, 0, hub.Subscribers("alice"))

	_, open := <-ch
	assert.False(t, open, "channel must be closed after unsubscribe")

	// Publishing after unsubscribe must not panic.
	hub.Publish("alice", []models.Note{{ID: "n1"}})

	// Unsubscribing twice is safe.
	stop()
}
