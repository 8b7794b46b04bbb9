package localstore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"confsync/models"
)

const bookingsFile = "session-bookings.json"

// Store is this device's durable booking state, backed by JSON files under a
// data directory. All operations are synchronous and touch only the local
// filesystem. Unparsable state is treated as an empty store, so a corrupted
// file costs the device its bookings but never blocks it.
type Store struct {
	dir string

	mu       sync.Mutex
	deviceID string
}

// bookings on disk: sessionId -> deviceId -> record. The nested device map
// mirrors what the webhook merge expects and keeps records from different
// devices (e.g. a restored backup) from clobbering each other.
type bookingsMap map[string]map[string]models.LocalBookingRecord

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Get returns this device's booking record for the session, if any.
func (s *Store) Get(sessionID string) (models.LocalBookingRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load()
	rec, ok := all[sessionID][s.deviceIDLocked()]
	return rec, ok
}

// Set replaces this device's record for the session. Names are trimmed and
// empty entries dropped; an empty result removes the record instead of
// storing an empty one, keeping the file proportional to active bookings.
func (s *Store) Set(sessionID string, names []string) {
	cleaned := CleanNames(names)
	if len(cleaned) == 0 {
		s.Remove(sessionID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deviceID := s.deviceIDLocked()
	all := s.load()
	if all[sessionID] == nil {
		all[sessionID] = make(map[string]models.LocalBookingRecord)
	}
	all[sessionID][deviceID] = models.LocalBookingRecord{
		DeviceID:  deviceID,
		Names:     cleaned,
		Count:     len(cleaned),
		Timestamp: time.Now().UTC(),
	}
	s.save(all)
}

// Remove drops this device's record for the session. Idempotent.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load()
	devices, ok := all[sessionID]
	if !ok {
		return
	}
	delete(devices, s.deviceIDLocked())
	if len(devices) == 0 {
		delete(all, sessionID)
	}
	s.save(all)
}

// ListAll returns this device's records keyed by session id, for diagnostics.
func (s *Store) ListAll() map[string]models.LocalBookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceID := s.deviceIDLocked()
	out := make(map[string]models.LocalBookingRecord)
	for sessionID, devices := range s.load() {
		if rec, ok := devices[deviceID]; ok {
			out[sessionID] = rec
		}
	}
	return out
}

// CountEstimate sums booked heads across every device known locally for the
// session. Used as the capacity baseline when the remote snapshot is
// unavailable.
func (s *Store) CountEstimate(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, rec := range s.load()[sessionID] {
		if rec.Count > 0 {
			total += rec.Count
		} else {
			total++ // old records without a count held one person
		}
	}
	return total
}

// Clear wipes every booking on this device. Admin/diagnostic use.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(bookingsMap{})
}

func (s *Store) load() bookingsMap {
	var all bookingsMap
	if !LoadJSON(filepath.Join(s.dir, bookingsFile), &all) || all == nil {
		return bookingsMap{}
	}
	return all
}

func (s *Store) save(all bookingsMap) {
	if err := SaveJSON(filepath.Join(s.dir, bookingsFile), all); err != nil {
		log.Printf("localstore: persist bookings: %v", err)
	}
}

// CleanNames trims each name and drops the empties, preserving order.
func CleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// LoadJSON reads a JSON file into v and reports whether it parsed cleanly.
// Missing or corrupt files report false: the caller proceeds from an empty
// value (fail-open).
func LoadJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("localstore: %s unreadable, starting empty: %v", filepath.Base(path), err)
		return false
	}
	return true
}

// SaveJSON writes v to path as JSON.
func SaveJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
