// Package live streams booking-change events to connected schedule pages so
// spot counters update without polling the sheet.
package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is one booking change, as sent to clients.
type Event struct {
	Kind      string    `json:"kind"` // "session" or "photoslot"
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	Send chan []byte
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					// Slow consumer: drop it rather than stall the rest.
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Register, Unregister and Publish select on done so callers mid-request
// during shutdown drop their event instead of blocking on a hub that has
// already returned from Run.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish fans an event out to every connected client.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("live: marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// BookingChanged implements the engine's Notifier.
func (h *Hub) BookingChanged(sessionID string) {
	h.Publish(Event{Kind: "session", ID: sessionID})
}

// SlotChanged mirrors BookingChanged for photoshoot slots.
func (h *Hub) SlotChanged(slot string) {
	h.Publish(Event{Kind: "photoslot", ID: slot})
}
