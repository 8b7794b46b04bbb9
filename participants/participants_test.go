package participants

import (
	"sync"
	"testing"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	return NewTracker(t.TempDir(), func() string { return "device-test" })
}

func TestHasTracking(t *testing.T) {
	if !HasTracking("Cacao Ceremony") || !HasTracking("Closing ceremony") {
		t.Fatal("ceremony titles must track participants")
	}
	if HasTracking("Aerial Yoga") {
		t.Fatal("ordinary sessions must not")
	}
}

func TestToggleJoinLeave(t *testing.T) {
	tr := newTestTracker(t)

	if !tr.Toggle("Cacao Ceremony") {
		t.Fatal("first toggle should join")
	}
	if !tr.IsParticipating("Cacao Ceremony") || tr.Count("Cacao Ceremony") != 1 {
		t.Fatal("join not recorded")
	}

	// joining twice does not double-count
	if tr.Join("Cacao Ceremony") {
		t.Fatal("second join should report false")
	}
	if tr.Count("Cacao Ceremony") != 1 {
		t.Fatal("double counted")
	}

	if tr.Toggle("Cacao Ceremony") {
		t.Fatal("second toggle should leave")
	}
	if tr.Count("Cacao Ceremony") != 0 {
		t.Fatal("leave not recorded")
	}

	// leaving when not participating is a no-op
	if tr.Leave("Cacao Ceremony") {
		t.Fatal("leave with no entry should report false")
	}
}

func TestConcurrentTogglesAlternate(t *testing.T) {
	tr := newTestTracker(t)

	// Toggles serialize on the tracker lock, so an even number of them
	// always nets out to not participating.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Toggle("Cacao Ceremony")
		}()
	}
	wg.Wait()

	if tr.IsParticipating("Cacao Ceremony") {
		t.Fatal("balanced toggles left the device joined")
	}
	if c := tr.Count("Cacao Ceremony"); c != 0 {
		t.Fatalf("count = %d after balanced toggles", c)
	}
}
