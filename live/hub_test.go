package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubBroadcastsBookingChanges(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10)}
	hub.Register(client)

	hub.BookingChanged("thu-0700-aerial-yoga")

	select {
	case got := <-client.Send:
		var ev Event
		if err := json.Unmarshal(got, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if ev.Kind != "session" || ev.ID != "thu-0700-aerial-yoga" {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.Timestamp.IsZero() {
			t.Fatal("event missing timestamp")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	hub.Unregister(client)
	if _, open := <-client.Send; open {
		t.Fatal("unregister should close the send channel")
	}
}

func TestPublishAfterStopReturns(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	// A handler still draining during shutdown may publish after Run has
	// returned; the event is dropped, the handler must not hang.
	done := make(chan struct{})
	go func() {
		hub.BookingChanged("thu-0700-aerial-yoga")
		hub.Register(&Client{Send: make(chan []byte, 1)})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("publish blocked on stopped hub")
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	slow := &Client{Send: make(chan []byte)} // unbuffered, never read
	fast := &Client{Send: make(chan []byte, 10)}
	hub.Register(slow)
	hub.Register(fast)

	hub.SlotChanged("14:00")

	select {
	case <-fast.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("fast client starved by slow one")
	}

	if _, open := <-slow.Send; open {
		t.Fatal("slow client should have been dropped")
	}
}
