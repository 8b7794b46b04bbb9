package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func testClient(t *testing.T, body string, status int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, srv.URL, 2*time.Second)
}

func TestFetchBookings(t *testing.T) {
	csv := "Session ID,Session Name,Capacity,Booked Names\n" +
		"thu-0700-aerial-yoga,Aerial Yoga,18,\"Alice, Bob\"\n" +
		"fri-0900-handstands,Handstands,12,\n" +
		",No ID,10,Carol\n" +       // no id: excluded
		"sat-1100-flow,Flow,,Dan\n" // no capacity: unlimited, excluded

	c := testClient(t, csv, http.StatusOK)
	snap, ok := c.FetchBookings(context.Background())
	if !ok {
		t.Fatal("fetch failed")
	}
	if len(snap) != 2 {
		t.Fatalf("want 2 snapshot entries, got %d: %v", len(snap), snap)
	}

	entry := snap["thu-0700-aerial-yoga"]
	if entry.Capacity != 18 || entry.BookingCount != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !reflect.DeepEqual(entry.BookedNames, []string{"Alice", "Bob"}) {
		t.Fatalf("unexpected names: %v", entry.BookedNames)
	}
	if snap["fri-0900-handstands"].BookingCount != 0 {
		t.Fatalf("empty names field should mean zero bookings")
	}
}

func TestQuotedCommaStaysOneField(t *testing.T) {
	csv := "Session ID,Session Name,Capacity,Booked Names\n" +
		`ses-1,Workshop,5,"Alice, Jr., Bob"` + "\n"

	snap := parseBookings(csv)
	entry, ok := snap["ses-1"]
	if !ok {
		t.Fatalf("row excluded: %v", snap)
	}
	// The quoted field must not leak tokens into extra columns; the names
	// inside it split on commas like any names field.
	if entry.Capacity != 5 {
		t.Fatalf("capacity field corrupted by quoted commas: %+v", entry)
	}
	if !reflect.DeepEqual(entry.BookedNames, []string{"Alice", "Jr.", "Bob"}) {
		t.Fatalf("unexpected names: %v", entry.BookedNames)
	}
}

func TestShortRowSkippedNotFatal(t *testing.T) {
	csv := "Session ID,Session Name,Capacity,Booked Names\n" +
		"broken-row,Oops\n" +
		"good-row,Fine,3,Alice\n"

	snap := parseBookings(csv)
	if _, ok := snap["broken-row"]; ok {
		t.Fatal("short row should be skipped")
	}
	if snap["good-row"].Capacity != 3 {
		t.Fatal("short row aborted the rest of the parse")
	}
}

func TestBookingsHeaderGuard(t *testing.T) {
	c := testClient(t, "Wrong,Headers\nfoo,bar\n", http.StatusOK)
	if _, ok := c.FetchBookings(context.Background()); ok {
		t.Fatal("unexpected headers should read as unknown, not empty")
	}
}

func TestFetchFailuresResolveToUnknown(t *testing.T) {
	c := testClient(t, "nope", http.StatusForbidden)
	if _, ok := c.FetchBookings(context.Background()); ok {
		t.Fatal("non-200 should be unknown")
	}

	html := testClient(t, "<html>sign in</html>", http.StatusOK)
	if _, ok := html.FetchBookings(context.Background()); ok {
		t.Fatal("HTML body should be unknown")
	}

	dead := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", "http://127.0.0.1:1", 200*time.Millisecond)
	if _, ok := dead.FetchBookings(context.Background()); ok {
		t.Fatal("unreachable host should be unknown")
	}
}

func TestParseScheduleByHeaderName(t *testing.T) {
	// Columns deliberately out of the "natural" order, plus an extra one.
	csv := "Title,ID,Day,Start,Types,Teachers,Location,Room Notes\n" +
		"\"Standing Acro, Level 2\",fri-1000-standing,Friday,10:00,\"Standing, Icarian\",\"Ana, Luis\",Beach Stage,bring water\n" +
		"Lunch,fri-1300-lunch,Friday,13:00,Meal,,Garden,\n"

	sessions := parseSchedule(csv)
	if len(sessions) != 2 {
		t.Fatalf("want 2 sessions, got %d", len(sessions))
	}

	s := sessions[0]
	if s.ID != "fri-1000-standing" || s.Title != "Standing Acro, Level 2" {
		t.Fatalf("header-name mapping broken: %+v", s)
	}
	if !reflect.DeepEqual(s.Teachers, []string{"Ana", "Luis"}) {
		t.Fatalf("teachers: %v", s.Teachers)
	}
	if s.CardType != "full" {
		t.Fatalf("card type: %q", s.CardType)
	}
	if s.Extra["Room Notes"] != "bring water" {
		t.Fatalf("extra columns lost: %v", s.Extra)
	}
	if !contains(s.Tags, "afternoon") || !contains(s.Tags, "beach") {
		t.Fatalf("tags: %v", s.Tags)
	}

	lunch := sessions[1]
	if lunch.CardType != "simplified" || !contains(lunch.Tags, "meal") {
		t.Fatalf("meal handling: %+v", lunch)
	}
}

func TestParseScheduleMultilineQuotedField(t *testing.T) {
	csv := "ID,Title,Description\n" +
		"a-1,Warmup,\"line one\nline two\"\n" +
		"a-2,Cooldown,short\n"

	sessions := parseSchedule(csv)
	if len(sessions) != 2 {
		t.Fatalf("newline inside quotes split the row: %d sessions", len(sessions))
	}
	if sessions[0].Description != "line one\nline two" {
		t.Fatalf("description: %q", sessions[0].Description)
	}
}

func TestParseSlots(t *testing.T) {
	csv := "Time Slot,Names\n" +
		"14:00,\"Alice, Bob\"\n" +
		"14:03,\n" +
		"14:06,Carol\n"

	slots := parseSlots(csv)
	if len(slots) != 2 {
		t.Fatalf("want 2 booked slots, got %v", slots)
	}
	if !reflect.DeepEqual(slots["14:00"], []string{"Alice", "Bob"}) {
		t.Fatalf("14:00 names: %v", slots["14:00"])
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
