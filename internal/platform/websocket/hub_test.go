package websocket

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(tenantID string) *Client {
	return &Client{
		ID:       "test-" + tenantID,
		TenantID: tenantID,
		Send:     make(chan []byte, 8),
	}
}

func testHub() *Hub {
	return NewHub(zerolog.New(io.Discard))
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	c := newTestClient("clinic-a")

	h.Register(c)
	if h.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", h.ClientCount())
	}
	if h.TenantClientCount("clinic-a") != 1 {
		t.Fatalf("expected 1 tenant client, got %d", h.TenantClientCount("clinic-a"))
	}

	h.Unregister(c)
	if h.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", h.ClientCount())
	}

	// Unregistering twice must not panic on the closed Send channel.
	h.Unregister(c)
}

func TestHub_BroadcastScopedToTenant(t *testing.T) {
	h := testHub()
	a := newTestClient("clinic-a")
	b := newTestClient("clinic-b")
	h.Register(a)
	h.Register(b)

	h.Broadcast(Event{Type: EventSnapshot, TenantID: "clinic-a", Timestamp: time.Now()})

	select {
	case raw := <-a.Send:
		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if evt.Type != EventSnapshot || evt.TenantID != "clinic-a" {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("expected clinic-a client to receive broadcast")
	}

	select {
	case <-b.Send:
		t.Fatal("clinic-b client must not receive clinic-a events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastSkipsFullBuffers(t *testing.T) {
	h := testHub()
	c := &Client{ID: "slow", TenantID: "clinic-a", Send: make(chan []byte)}
	h.Register(c)

	done := make(chan struct{})
	go func() {
		h.Broadcast(Event{Type: EventSnapshot, TenantID: "clinic-a"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on unbuffered client")
	}
}
