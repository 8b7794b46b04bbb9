package sheets

import (
	"context"
	"log"
	"strconv"
	"strings"

	"confsync/models"
)

// Fixed column layout of the bookings tab, written by the webhook script:
// Session ID | Session Name | Capacity | Booked Names
const bookingsColumns = 4

// FetchBookings reads the bookings tab and returns the shared booking
// snapshot. ok is false on any network or shape failure; a reachable but
// empty tab is a valid, empty snapshot.
func (c *Client) FetchBookings(ctx context.Context) (models.RemoteBookingSnapshot, bool) {
	data, ok := c.fetchCSV(ctx, c.BookingsURL)
	if !ok {
		return nil, false
	}
	if strings.TrimSpace(data) == "" {
		return models.RemoteBookingSnapshot{}, true
	}
	// Guard against pointing at the wrong tab.
	if !strings.Contains(data, "Session ID") || !strings.Contains(data, "Booked Names") {
		log.Printf("sheets: bookings tab missing expected headers: %q", splitRows(data)[0])
		return nil, false
	}
	return parseBookings(data), true
}

func parseBookings(data string) models.RemoteBookingSnapshot {
	rows := splitRows(data)
	snapshot := models.RemoteBookingSnapshot{}
	if len(rows) < 2 {
		return snapshot
	}

	for i, row := range rows[1:] { // first row is the header
		fields := splitFields(row)
		if len(fields) < bookingsColumns {
			log.Printf("sheets: bookings row %d has %d fields, want %d; skipped", i+2, len(fields), bookingsColumns)
			continue
		}

		sessionID := fields[0]
		sessionName := fields[1]
		capacity, err := strconv.Atoi(fields[2])
		// Rows without an id or a positive capacity are capacity-less
		// ("unlimited") sessions and stay out of the snapshot by design.
		if sessionID == "" || err != nil || capacity <= 0 {
			continue
		}

		names := splitNames(fields[3])
		snapshot[sessionID] = models.SnapshotEntry{
			SessionName:  sessionName,
			Capacity:     capacity,
			BookedNames:  names,
			BookingCount: len(names),
		}
	}
	return snapshot
}
