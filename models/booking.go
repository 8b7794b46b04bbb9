package models

import "time"

// LocalBookingRecord is one device's booking for one session. Records are
// owned exclusively by the local store of the device that created them and
// reach other devices only indirectly, through the webhook sink.
type LocalBookingRecord struct {
	DeviceID  string    `json:"deviceId"`
	Names     []string  `json:"names"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotEntry is the per-session slice of the shared booking sheet:
// capacity, the merged list of booked names across all devices, and the
// derived count.
type SnapshotEntry struct {
	SessionName  string   `json:"sessionName"`
	Capacity     int      `json:"capacity"`
	BookedNames  []string `json:"bookedNames"`
	BookingCount int      `json:"bookingCount"`
}

// RemoteBookingSnapshot maps session id to its last-read booking state.
// Sessions without an explicit positive capacity are absent from the map;
// absent means unlimited, not unknown.
type RemoteBookingSnapshot map[string]SnapshotEntry

// BookingStatus is the display tuple derived for one session.
type BookingStatus struct {
	BookingCount int  `json:"bookingCount"`
	Capacity     int  `json:"capacity"`
	SpotsLeft    int  `json:"spotsLeft"`
	IsFull       bool `json:"isFull"`
	IsBooked     bool `json:"isBooked"`
}
