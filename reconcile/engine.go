// Package reconcile merges this device's booking state with the shared
// spreadsheet snapshot and drives the check-commit-push sequence. It provides
// no cross-device ordering: two devices can both pass the capacity check and
// overbook. That race is a documented property of the system.
package reconcile

import (
	"context"
	"log"
	"sync"

	"confsync/localstore"
	"confsync/models"
)

// SnapshotReader is the read side of the shared sheet. ok=false means
// "remote state unknown", never an error.
type SnapshotReader interface {
	FetchBookings(ctx context.Context) (models.RemoteBookingSnapshot, bool)
}

// WriteSink dispatches a merged record. true means dispatched, not committed.
type WriteSink interface {
	Push(ctx context.Context, sessionID string, mergedNames []string) bool
}

// Notifier receives booking-change events for live listeners. May be nil.
type Notifier interface {
	BookingChanged(sessionID string)
}

type Engine struct {
	store    *localstore.Store
	reader   SnapshotReader
	sink     WriteSink
	notifier Notifier

	wg sync.WaitGroup
}

func NewEngine(store *localstore.Store, reader SnapshotReader, sink WriteSink, notifier Notifier) *Engine {
	return &Engine{store: store, reader: reader, sink: sink, notifier: notifier}
}

// AttemptBook runs the booking sequence for this device:
// validate -> fresh snapshot -> capacity check -> local commit -> async push.
// capacityHint is the capacity known from the schedule feed, used when the
// bookings snapshot has no row for the session yet; zero means unlimited.
func (e *Engine) AttemptBook(ctx context.Context, sessionID string, candidateNames []string, capacityHint int) Result {
	names := localstore.CleanNames(candidateNames)
	if len(names) == 0 {
		return Result{Outcome: InvalidInput}
	}

	// Re-read the shared sheet to catch concurrent writers. A failed fetch
	// degrades to the local estimate: higher race risk, but booking stays
	// available while the sheet is down.
	snapshot, fresh := e.reader.FetchBookings(ctx)
	if !fresh {
		log.Printf("reconcile: snapshot unavailable; booking %s from local view only", sessionID)
	}

	currentCount, capacity := e.countAndCapacity(sessionID, snapshot, fresh, capacityHint)

	if capacity > 0 && currentCount+len(names) > capacity {
		spotsLeft := capacity - currentCount
		if spotsLeft < 0 {
			spotsLeft = 0
		}
		return Result{Outcome: RejectedFull, SpotsLeft: spotsLeft}
	}

	// Commit point. Everything after this returns success to the caller.
	e.store.Set(sessionID, names)
	e.notify(sessionID)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.syncSession(context.Background(), sessionID, nil)
	}()

	return Result{Outcome: Booked, Names: names}
}

// Cancel removes this device's booking. Always succeeds locally, even with
// nothing to remove; the reduced name list is pushed best-effort afterwards.
func (e *Engine) Cancel(ctx context.Context, sessionID string) {
	prior, had := e.store.Get(sessionID)
	e.store.Remove(sessionID)
	if !had {
		return
	}
	e.notify(sessionID)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.syncSession(context.Background(), sessionID, prior.Names)
	}()
}

// Status derives the display state for one session from the local store and
// a caller-provided snapshot. Pure read: no network, callers refresh the
// snapshot on their own cadence.
func (e *Engine) Status(sessionID string, snapshot models.RemoteBookingSnapshot) models.BookingStatus {
	count, capacity := e.countAndCapacity(sessionID, snapshot, snapshot != nil, 0)

	status := models.BookingStatus{
		BookingCount: count,
		Capacity:     capacity,
	}
	if capacity > 0 {
		status.SpotsLeft = capacity - count
		if status.SpotsLeft < 0 {
			status.SpotsLeft = 0
		}
		status.IsFull = count >= capacity
	}
	_, status.IsBooked = e.store.Get(sessionID)
	return status
}

// ResyncAll re-pushes every booking held on this device. Admin escape hatch
// for when the sheet was edited or wiped out from under the devices.
func (e *Engine) ResyncAll() int {
	all := e.store.ListAll()
	for sessionID := range all {
		e.wg.Add(1)
		go func(id string) {
			defer e.wg.Done()
			e.syncSession(context.Background(), id, nil)
		}(sessionID)
	}
	return len(all)
}

// Flush waits for in-flight pushes. Used on shutdown so a quick restart does
// not drop the last booking's sync.
func (e *Engine) Flush() {
	e.wg.Wait()
}

func (e *Engine) countAndCapacity(sessionID string, snapshot models.RemoteBookingSnapshot, fresh bool, capacityHint int) (int, int) {
	if fresh {
		if entry, ok := snapshot[sessionID]; ok {
			return entry.BookingCount, entry.Capacity
		}
		// Sheet reachable but no row yet: nobody is booked remotely.
		return e.store.CountEstimate(sessionID), capacityHint
	}
	return e.store.CountEstimate(sessionID), capacityHint
}

// syncSession recomputes the merged name list and pushes it. removed carries
// this device's prior names when the local record was just cancelled. The
// read-merge-push here is not atomic with the remote state: a concurrent
// writer between the fetch and the push can still be overwritten. Accepted.
func (e *Engine) syncSession(ctx context.Context, sessionID string, removed []string) {
	var remote []string
	if snapshot, ok := e.reader.FetchBookings(ctx); ok {
		remote = snapshot[sessionID].BookedNames
	}

	var merged []string
	if rec, ok := e.store.Get(sessionID); ok {
		merged = unionNames(remote, rec.Names)
	} else {
		merged = subtractNames(remote, removed)
	}

	if !e.sink.Push(ctx, sessionID, merged) {
		log.Printf("reconcile: push for %s not dispatched; local booking kept", sessionID)
	}
}

func (e *Engine) notify(sessionID string) {
	if e.notifier != nil {
		e.notifier.BookingChanged(sessionID)
	}
}

// unionNames preserves order: remote names first, then local names not
// already present. Matching is exact after the store's trimming: "Bob" and
// "bob" stay two people.
func unionNames(remote, local []string) []string {
	seen := make(map[string]bool, len(remote)+len(local))
	merged := make([]string, 0, len(remote)+len(local))
	for _, n := range remote {
		if !seen[n] {
			seen[n] = true
			merged = append(merged, n)
		}
	}
	for _, n := range local {
		if !seen[n] {
			seen[n] = true
			merged = append(merged, n)
		}
	}
	return merged
}

func subtractNames(remote, removed []string) []string {
	drop := make(map[string]bool, len(removed))
	for _, n := range removed {
		drop[n] = true
	}
	kept := make([]string, 0, len(remote))
	for _, n := range remote {
		if !drop[n] {
			kept = append(kept, n)
		}
	}
	return kept
}
