package photoslots

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"confsync/reconcile"
)

type fakeSlotReader struct {
	mu    sync.Mutex
	slots map[string][]string
	ok    bool
}

func (f *fakeSlotReader) FetchSlots(ctx context.Context) (map[string][]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots, f.ok
}

type fakeSlotSink struct {
	mu     sync.Mutex
	pushes []map[string][]string
}

func (f *fakeSlotSink) PushSlots(ctx context.Context, slots map[string][]string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, slots)
	return true
}

func (f *fakeSlotSink) last() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushes) == 0 {
		return nil
	}
	return f.pushes[len(f.pushes)-1]
}

func newTestBooker(t *testing.T, reader SlotReader, sink *fakeSlotSink) *Booker {
	t.Helper()
	return NewBooker(t.TempDir(), reader, sink)
}

func TestSlotGrid(t *testing.T) {
	slots := AllSlots()
	if len(slots) != 40 {
		t.Fatalf("want 40 slots, got %d", len(slots))
	}
	if slots[0] != "14:00" || slots[1] != "14:03" || slots[39] != "15:57" {
		t.Fatalf("grid wrong: %v", slots[:2])
	}
	if !ValidSlot("14:03") || ValidSlot("16:00") || ValidSlot("14:01") {
		t.Fatal("ValidSlot mismatch")
	}
}

func TestBookAndCancelOwnedSlot(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{}, ok: true}
	sink := &fakeSlotSink{}
	b := newTestBooker(t, reader, sink)

	res := b.Book(context.Background(), "14:00", []string{"Alice", "Bob"})
	if res.Outcome != reconcile.Booked {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	b.Flush()

	merged := b.List(context.Background())
	if !reflect.DeepEqual(merged["14:00"], []string{"Alice", "Bob"}) {
		t.Fatalf("merged view: %v", merged)
	}
	if got := sink.last(); !reflect.DeepEqual(got["14:00"], []string{"Alice", "Bob"}) {
		t.Fatalf("pushed map: %v", got)
	}

	if !b.Cancel(context.Background(), "14:00") {
		t.Fatal("owned slot must be cancellable")
	}
	b.Flush()
	if len(b.List(context.Background())) != 0 {
		t.Fatal("slot survived cancel")
	}
}

func TestCancelClearsSlotAlreadyOnSheet(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{}, ok: true}
	sink := &fakeSlotSink{}
	b := newTestBooker(t, reader, sink)

	b.Book(context.Background(), "14:00", []string{"Alice", "Bob"})
	b.Flush()

	// the sheet has caught up with the booking before the cancel lands
	reader.mu.Lock()
	reader.slots = map[string][]string{"14:00": {"Alice", "Bob"}}
	reader.mu.Unlock()

	if !b.Cancel(context.Background(), "14:00") {
		t.Fatal("owned slot must be cancellable")
	}
	b.Flush()

	// the push must clear the row, not resurrect the remote copy
	got := sink.last()
	if names, present := got["14:00"]; present && len(names) > 0 {
		t.Fatalf("cancelled slot pushed as booked: %v", names)
	}
}

func TestConflictWithRemoteHolder(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{"14:06": {"Carol"}}, ok: true}
	b := newTestBooker(t, reader, &fakeSlotSink{})

	res := b.Book(context.Background(), "14:06", []string{"Alice"})
	if res.Outcome != reconcile.RejectedConflict {
		t.Fatalf("outcome = %s, want conflict", res.Outcome)
	}
	b.Flush()
}

func TestRebookOwnSlotAllowed(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{}, ok: true}
	b := newTestBooker(t, reader, &fakeSlotSink{})

	b.Book(context.Background(), "14:00", []string{"Alice"})
	b.Flush()

	// remote now reflects our booking; editing our own slot is not a conflict
	reader.mu.Lock()
	reader.slots = map[string][]string{"14:00": {"Alice"}}
	reader.mu.Unlock()

	res := b.Book(context.Background(), "14:00", []string{"Alice", "Bob"})
	if res.Outcome != reconcile.Booked {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	b.Flush()
}

func TestCannotCancelUnownedSlot(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{"14:09": {"Carol"}}, ok: true}
	sink := &fakeSlotSink{}
	b := newTestBooker(t, reader, sink)

	if b.Cancel(context.Background(), "14:09") {
		t.Fatal("cancelling another device's slot must be refused")
	}
	if len(sink.pushes) != 0 {
		t.Fatal("refused cancel must not push")
	}
}

func TestInvalidInput(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{}, ok: true}
	b := newTestBooker(t, reader, &fakeSlotSink{})

	if res := b.Book(context.Background(), "14:00", []string{"  "}); res.Outcome != reconcile.InvalidInput {
		t.Fatalf("empty names: %s", res.Outcome)
	}
	if res := b.Book(context.Background(), "23:59", []string{"Alice"}); res.Outcome != reconcile.InvalidInput {
		t.Fatalf("unknown slot: %s", res.Outcome)
	}
}

func TestMergedViewPrefersRemoteForUnownedSlots(t *testing.T) {
	reader := &fakeSlotReader{slots: map[string][]string{}, ok: true}
	b := newTestBooker(t, reader, &fakeSlotSink{})

	b.Book(context.Background(), "14:00", []string{"Alice"})
	b.Flush()

	// someone else books 14:03 on the sheet; admin edits our 14:00 remotely
	reader.mu.Lock()
	reader.slots = map[string][]string{
		"14:00": {"Renamed By Admin"},
		"14:03": {"Carol"},
	}
	reader.mu.Unlock()

	merged := b.List(context.Background())
	if !reflect.DeepEqual(merged["14:03"], []string{"Carol"}) {
		t.Fatalf("remote slot lost: %v", merged)
	}
	// we own 14:00, so our local copy wins until we push again
	if !reflect.DeepEqual(merged["14:00"], []string{"Alice"}) {
		t.Fatalf("owned slot overridden: %v", merged)
	}
}

// stallingSlotReader blocks every fetch until gate closes and signals the
// first call through entered.
type stallingSlotReader struct {
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (f *stallingSlotReader) FetchSlots(ctx context.Context) (map[string][]string, bool) {
	f.once.Do(func() { close(f.entered) })
	<-f.gate
	return map[string][]string{}, true
}

func TestSlowFeedDoesNotBlockOtherSlotOps(t *testing.T) {
	reader := &stallingSlotReader{
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	b := newTestBooker(t, reader, &fakeSlotSink{})

	bookDone := make(chan struct{})
	go func() {
		b.Book(context.Background(), "14:00", []string{"Alice"})
		close(bookDone)
	}()
	<-reader.entered

	// with the feed fetch in flight, other slot operations must not queue
	// behind it
	cancelDone := make(chan struct{})
	go func() {
		b.Cancel(context.Background(), "14:03")
		close(cancelDone)
	}()

	select {
	case <-cancelDone:
	case <-time.After(1 * time.Second):
		t.Fatal("cancel stalled behind the slot feed fetch")
	}

	close(reader.gate)
	<-bookDone
	b.Flush()
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "Time Slot,Names\n") {
		t.Fatalf("header: %q", tmpl[:20])
	}
	if !strings.Contains(tmpl, "\"15:57\"") {
		t.Fatal("last slot missing from template")
	}
}
