// Package viewmodel derives per-session display state for the schedule
// front end. Pure functions over the schedule feed, the booking snapshot and
// the local store; no side effects, recomputed on every query.
package viewmodel

import (
	"confsync/localstore"
	"confsync/models"
)

// HasCapacityBooking reports whether the session takes capacity bookings at
// all. Capacity-less sessions are unlimited and render without a counter.
func HasCapacityBooking(s models.Session) bool {
	return s.Capacity > 0
}

// MergeSessions annotates schedule sessions with booking data from the
// snapshot. A nil snapshot (remote unknown) leaves the sessions untouched;
// they render as unlimited rather than failing.
func MergeSessions(sessions []models.Session, snapshot models.RemoteBookingSnapshot) []models.Session {
	if snapshot == nil {
		return sessions
	}
	merged := make([]models.Session, len(sessions))
	for i, s := range sessions {
		if entry, ok := snapshot[s.ID]; ok {
			s.Capacity = entry.Capacity
			s.BookedNames = entry.BookedNames
			s.BookingCount = entry.BookingCount
		}
		merged[i] = s
	}
	return merged
}

// StatusFor builds the display tuple for one session. The booking count
// prefers the snapshot, then the session's merged fields, then the local
// estimate; spots left is floored at zero even when racing devices pushed
// the count past capacity.
func StatusFor(s models.Session, snapshot models.RemoteBookingSnapshot, store *localstore.Store) *models.BookingStatus {
	if !HasCapacityBooking(s) {
		return nil
	}

	count := s.BookingCount
	if entry, ok := snapshot[s.ID]; ok {
		count = entry.BookingCount
	} else if s.BookingCount == 0 && store != nil {
		count = store.CountEstimate(s.ID)
	}

	spotsLeft := s.Capacity - count
	if spotsLeft < 0 {
		spotsLeft = 0
	}

	status := &models.BookingStatus{
		BookingCount: count,
		Capacity:     s.Capacity,
		SpotsLeft:    spotsLeft,
		IsFull:       count >= s.Capacity,
	}
	if store != nil {
		_, status.IsBooked = store.Get(s.ID)
	}
	return status
}
