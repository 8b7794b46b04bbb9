// Package sink pushes merged booking records to the spreadsheet webhook.
// The webhook's response body is opaque by design, so a true return only
// means "dispatched without a transport error", never "durably persisted".
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type Webhook struct {
	HTTP *http.Client

	BookingsURL string
	SlotsURL    string

	now func() time.Time
}

func NewWebhook(bookingsURL, slotsURL string, timeout time.Duration) *Webhook {
	return &Webhook{
		HTTP:        &http.Client{Timeout: timeout},
		BookingsURL: bookingsURL,
		SlotsURL:    slotsURL,
		now:         time.Now,
	}
}

type bookingPayload struct {
	SessionID string `json:"sessionId"`
	Names     string `json:"names"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

type slotPayload struct {
	TimeSlot string `json:"timeSlot"`
	Names    string `json:"names"`
}

// Push sends one session's merged name list. At most one attempt; no retry.
func (w *Webhook) Push(ctx context.Context, sessionID string, mergedNames []string) bool {
	payload := bookingPayload{
		SessionID: sessionID,
		Names:     joinNames(mergedNames),
		Count:     len(mergedNames),
		Timestamp: w.now().UTC().Format(time.RFC3339),
	}
	return w.dispatch(ctx, w.BookingsURL, payload)
}

// PushSlots sends the whole photoshoot slot map.
func (w *Webhook) PushSlots(ctx context.Context, slots map[string][]string) bool {
	payloads := make([]slotPayload, 0, len(slots))
	for timeSlot, names := range slots {
		payloads = append(payloads, slotPayload{TimeSlot: timeSlot, Names: joinNames(names)})
	}
	return w.dispatch(ctx, w.SlotsURL, map[string]any{"bookings": payloads})
}

func (w *Webhook) dispatch(ctx context.Context, url string, payload any) bool {
	if url == "" {
		log.Println("sink: webhook URL not configured; booking kept local only")
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("sink: marshal payload: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("sink: build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.HTTP.Do(req)
	if err != nil {
		log.Printf("sink: dispatch to %s failed: %v", url, err)
		return false
	}
	// Drain and ignore: the Apps Script endpoint answers through redirects
	// and opaque bodies, so the status tells us nothing about persistence.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return true
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
