// Package photoslots books the fixed photoshoot time slots: 3-minute
// windows, one party per slot. A device may only edit or cancel slots it
// booked itself; everything else belongs to the shared sheet.
package photoslots

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"confsync/localstore"
	"confsync/reconcile"
)

const (
	slotsFile      = "photo-slots.json"
	ownedSlotsFile = "owned-slots.json"

	startHour   = 14
	slotMinutes = 3
	slotCount   = 40
)

// SlotReader reads the photoshoot tab; ok=false means remote state unknown.
type SlotReader interface {
	FetchSlots(ctx context.Context) (map[string][]string, bool)
}

// SlotSink pushes the whole slot map, best-effort.
type SlotSink interface {
	PushSlots(ctx context.Context, slots map[string][]string) bool
}

type Booker struct {
	dir    string
	reader SlotReader
	sink   SlotSink

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewBooker(dir string, reader SlotReader, sink SlotSink) *Booker {
	return &Booker{dir: dir, reader: reader, sink: sink}
}

// Book claims a slot for this device. The fresh remote read before the local
// commit narrows, but does not close, the window in which two devices claim
// the same slot; as with sessions, last write wins on the sheet.
func (b *Booker) Book(ctx context.Context, slot string, names []string) reconcile.Result {
	cleaned := localstore.CleanNames(names)
	if len(cleaned) == 0 || !ValidSlot(slot) {
		return reconcile.Result{Outcome: reconcile.InvalidInput}
	}

	// Fetch outside the lock: a slow sheet read must not stall every other
	// slot operation. Ownership is re-checked once the lock is held.
	remote, remoteOK := b.reader.FetchSlots(ctx)
	if !remoteOK {
		log.Printf("photoslots: slot feed unavailable; booking %s optimistically", slot)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if remoteOK && !b.ownsLocked(slot) && len(remote[slot]) > 0 {
		return reconcile.Result{Outcome: reconcile.RejectedConflict}
	}

	local := b.loadLocked(slotsFile)
	local[slot] = cleaned
	b.saveLocked(slotsFile, local)
	b.addOwnedLocked(slot)

	b.pushAsync("")
	return reconcile.Result{Outcome: reconcile.Booked, Names: cleaned}
}

// Cancel frees a slot. Only slots this device booked can be cancelled;
// cancelling an unowned or free slot reports false and changes nothing.
func (b *Booker) Cancel(ctx context.Context, slot string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ownsLocked(slot) {
		return false
	}

	local := b.loadLocked(slotsFile)
	delete(local, slot)
	b.saveLocked(slotsFile, local)
	b.removeOwnedLocked(slot)

	b.pushAsync(slot)
	return true
}

// List returns the merged slot view: the sheet is ground truth for slots this
// device does not own, the local store for those it does.
func (b *Booker) List(ctx context.Context) map[string][]string {
	remote, _ := b.reader.FetchSlots(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mergedLocked(remote)
}

// Flush waits for in-flight pushes.
func (b *Booker) Flush() {
	b.wg.Wait()
}

func (b *Booker) mergedLocked(remote map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(remote))
	owned := b.ownedLocked()
	for slot, names := range remote {
		if !owned[slot] {
			merged[slot] = names
		}
	}
	for slot, names := range b.loadLocked(slotsFile) {
		if owned[slot] {
			merged[slot] = names
		}
	}
	return merged
}

// pushAsync recomputes the merged map and pushes it. cancelled names the
// slot whose local record was just dropped: it is no longer owned, so the
// plain merge would take the remote copy, which still lists this device, and
// book the slot right back. It is pushed as empty instead so the sheet row
// clears.
func (b *Booker) pushAsync(cancelled string) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx := context.Background()
		remote, _ := b.reader.FetchSlots(ctx)

		b.mu.Lock()
		merged := b.mergedLocked(remote)
		if cancelled != "" && !b.ownsLocked(cancelled) {
			merged[cancelled] = nil
		}
		b.mu.Unlock()

		if !b.sink.PushSlots(ctx, merged) {
			log.Println("photoslots: slot push not dispatched; kept local")
		}
	}()
}

// ---------- local files ----------

func (b *Booker) loadLocked(file string) map[string][]string {
	var m map[string][]string
	if !localstore.LoadJSON(filepath.Join(b.dir, file), &m) || m == nil {
		return map[string][]string{}
	}
	return m
}

func (b *Booker) saveLocked(file string, m map[string][]string) {
	if err := localstore.SaveJSON(filepath.Join(b.dir, file), m); err != nil {
		log.Printf("photoslots: persist %s: %v", file, err)
	}
}

func (b *Booker) ownedLocked() map[string]bool {
	var keys []string
	localstore.LoadJSON(filepath.Join(b.dir, ownedSlotsFile), &keys)
	owned := make(map[string]bool, len(keys))
	for _, k := range keys {
		owned[k] = true
	}
	return owned
}

func (b *Booker) ownsLocked(slot string) bool {
	return b.ownedLocked()[slot]
}

func (b *Booker) addOwnedLocked(slot string) {
	owned := b.ownedLocked()
	owned[slot] = true
	b.saveOwnedLocked(owned)
}

func (b *Booker) removeOwnedLocked(slot string) {
	owned := b.ownedLocked()
	delete(owned, slot)
	b.saveOwnedLocked(owned)
}

func (b *Booker) saveOwnedLocked(owned map[string]bool) {
	keys := make([]string, 0, len(owned))
	for k := range owned {
		keys = append(keys, k)
	}
	if err := localstore.SaveJSON(filepath.Join(b.dir, ownedSlotsFile), keys); err != nil {
		log.Printf("photoslots: persist owned slots: %v", err)
	}
}

// ---------- slot grid ----------

// AllSlots returns the fixed grid: 40 three-minute slots from 14:00.
func AllSlots() []string {
	slots := make([]string, 0, slotCount)
	start := startHour * 60
	for i := 0; i < slotCount; i++ {
		m := start + i*slotMinutes
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

func ValidSlot(slot string) bool {
	for _, s := range AllSlots() {
		if s == slot {
			return true
		}
	}
	return false
}

// Template renders the CSV body an admin pastes into a fresh sheet.
func Template() string {
	out := "Time Slot,Names\n"
	for _, slot := range AllSlots() {
		out += fmt.Sprintf("%q,\"\"\n", slot)
	}
	return out
}
