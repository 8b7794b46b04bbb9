package models

// Session is a row of the schedule sheet, annotated (never created) by the
// booking layer. Capacity 0 means unlimited.
type Session struct {
	ID          string            `json:"id"`
	Day         string            `json:"day"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Title       string            `json:"title"`
	Level       string            `json:"level"`
	Styles      []string          `json:"styles"`
	Teachers    []string          `json:"teachers"`
	Location    string            `json:"location"`
	Description string            `json:"description"`
	Prereqs     string            `json:"prereqs"`
	CardType    string            `json:"cardType"`
	Tags        []string          `json:"tags"`
	Extra       map[string]string `json:"extra,omitempty"`

	// Booking-derived fields, filled from the bookings snapshot.
	Capacity     int      `json:"capacity,omitempty"`
	BookedNames  []string `json:"bookedNames,omitempty"`
	BookingCount int      `json:"bookingCount,omitempty"`
}
