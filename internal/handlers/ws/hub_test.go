package ws

import (
	"testing"
	"time"
)

func newTestClient(userID uint) *ClientConnection {
	return &ClientConnection{
		UserID:         userID,
		LastPong:       time.Now(),
		PingTicker:     time.NewTicker(time.Hour),
		CloseChan:      make(chan struct{}),
		channels:       make(map[uint]struct{}),
		presenceFilter: make(map[uint]struct{}),
		visible:        true,
	}
}

func TestUnregisterStaleConnection(t *testing.T) {
	hub := NewHub()

	stale := newTestClient(7)
	fresh := newTestClient(7)

	hub.clientsMux.Lock()
	hub.clients[7] = stale
	hub.clientsMux.Unlock()

	// A reconnect replaces the entry before the stale reader unwinds.
	hub.clientsMux.Lock()
	hub.clients[7] = fresh
	hub.clientsMux.Unlock()

	if hub.UnregisterClient(stale) {
		t.Error("stale connection removal should report false")
	}
	if got := hub.Count(); got != 1 {
		t.Fatalf("fresh connection evicted, count = %d, want 1", got)
	}
	select {
	case <-fresh.CloseChan:
		t.Error("fresh connection's close channel fired")
	default:
	}

	if !hub.UnregisterClient(fresh) {
		t.Error("current connection removal should report true")
	}
	if got := hub.Count(); got != 0 {
		t.Errorf("count after removal = %d, want 0", got)
	}
	if hub.UnregisterClient(fresh) {
		t.Error("repeated removal should report false")
	}
}
