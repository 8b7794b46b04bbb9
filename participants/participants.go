// Package participants tracks sign-ups for preparation-heavy sessions (the
// cacao ceremony) on this device only. No remote sync: the organizer reads
// the counts off the device that collected them.
package participants

import (
	"log"
	"path/filepath"
	"strings"
	"sync"

	"confsync/localstore"
)

const participantsFile = "participants.json"

type Tracker struct {
	dir      string
	deviceID func() string

	mu sync.Mutex
}

func NewTracker(dir string, deviceID func() string) *Tracker {
	return &Tracker{dir: dir, deviceID: deviceID}
}

// HasTracking reports whether a session title takes participant tracking.
func HasTracking(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "cacao") || strings.Contains(t, "ceremony")
}

// Toggle flips this device's participation and returns the new state. The
// check and the flip happen under one lock so two concurrent toggles cannot
// both read "not participating" and join twice.
func (t *Tracker) Toggle(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isParticipatingLocked(title) {
		t.leaveLocked(title)
		return false
	}
	t.joinLocked(title)
	return true
}

func (t *Tracker) Join(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.joinLocked(title)
}

func (t *Tracker) Leave(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leaveLocked(title)
}

func (t *Tracker) IsParticipating(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isParticipatingLocked(title)
}

func (t *Tracker) joinLocked(title string) bool {
	all := t.load()
	id := t.deviceID()
	for _, d := range all[title] {
		if d == id {
			return false
		}
	}
	all[title] = append(all[title], id)
	t.save(all)
	return true
}

func (t *Tracker) leaveLocked(title string) bool {
	all := t.load()
	devices, ok := all[title]
	if !ok {
		return false
	}

	id := t.deviceID()
	kept := devices[:0]
	for _, d := range devices {
		if d != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		delete(all, title)
	} else {
		all[title] = kept
	}
	t.save(all)
	return true
}

func (t *Tracker) isParticipatingLocked(title string) bool {
	id := t.deviceID()
	for _, d := range t.load()[title] {
		if d == id {
			return true
		}
	}
	return false
}

func (t *Tracker) Count(title string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.load()[title])
}

func (t *Tracker) load() map[string][]string {
	var all map[string][]string
	if !localstore.LoadJSON(filepath.Join(t.dir, participantsFile), &all) || all == nil {
		return map[string][]string{}
	}
	return all
}

func (t *Tracker) save(all map[string][]string) {
	if err := localstore.SaveJSON(filepath.Join(t.dir, participantsFile), all); err != nil {
		log.Printf("participants: persist: %v", err)
	}
}
