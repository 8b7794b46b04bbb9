package reconcile

// Outcome of a booking attempt. Full and invalid-input rejections are
// expected, recoverable conditions, the only failures a user ever sees.
type Outcome string

const (
	Booked       Outcome = "booked"
	RejectedFull Outcome = "rejected-full"
	InvalidInput Outcome = "invalid-input"
	// RejectedConflict fires for slot-style bookings where another device
	// already holds the slot. Capacity sessions never conflict: re-booking
	// overwrites this device's own record.
	RejectedConflict Outcome = "rejected-conflict"
)

type Result struct {
	Outcome Outcome `json:"outcome"`
	// SpotsLeft is set on RejectedFull so the caller can shrink the request.
	SpotsLeft int `json:"spotsLeft,omitempty"`
	// Names is the cleaned list actually committed on Booked.
	Names []string `json:"names,omitempty"`
}
