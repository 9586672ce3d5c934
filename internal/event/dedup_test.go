package event

import (
	"testing"
	"time"
)

func mustStart(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return &ts
}

func TestDeduplicatePrefersResolvedSignal(t *testing.T) {
	start := mustStart(t, "2026-03-13T00:00:00Z")
	weak := New("Swan Lake", start, "", 30)
	strong := New("Swan Lake - SOLD OUT", start, "Sold out", 100)

	got := Deduplicate([]*Event{weak, strong}, 30)
	if len(got) != 1 {
		t.Fatalf("expected 1 event after dedup, got %d", len(got))
	}
	if got[0].OverridePct != 100 {
		t.Errorf("expected resolved record to win, got pct=%d", got[0].OverridePct)
	}
}

func TestDeduplicateKeepsFirstOccurrenceOrder(t *testing.T) {
	d1 := mustStart(t, "2026-03-13T00:00:00Z")
	d2 := mustStart(t, "2026-04-04T00:00:00Z")
	events := []*Event{
		New("B Show", d2, "Book now", 20),
		New("A Show", d1, "Book now", 20),
		New("B Show", d2, "Book now", 20), // duplicate
	}

	got := Deduplicate(events, 30)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Title != "B Show" || got[1].Title != "A Show" {
		t.Errorf("first-occurrence order lost: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestDeduplicateSeparateDaysSurvive(t *testing.T) {
	d1 := mustStart(t, "2026-03-13T00:00:00Z")
	d2 := mustStart(t, "2026-03-14T00:00:00Z")
	events := []*Event{
		New("Swan Lake", d1, "Book now", 20),
		New("Swan Lake", d2, "Book now", 20),
	}
	if got := Deduplicate(events, 30); len(got) != 2 {
		t.Errorf("same title on different days must not collapse, got %d", len(got))
	}
}

func TestDeduplicateSkipsEmptyTitles(t *testing.T) {
	events := []*Event{New("", nil, "", 30), New("Real", nil, "", 30)}
	got := Deduplicate(events, 30)
	if len(got) != 1 || got[0].Title != "Real" {
		t.Errorf("untitled cards should be dropped, got %+v", got)
	}
}

func TestDeduplicatePrefersCurtainTime(t *testing.T) {
	dateOnly := mustStart(t, "2026-03-13T00:00:00Z")
	timed := mustStart(t, "2026-03-13T19:30:00Z")
	events := []*Event{
		New("Swan Lake", dateOnly, "Book now", 20),
		New("Swan Lake", timed, "Book now", 20),
	}

	got := Deduplicate(events, 30)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Start.Hour() != 19 {
		t.Errorf("expected timed record to win, got hour %d", got[0].Start.Hour())
	}
}

func TestSortEvents(t *testing.T) {
	d1 := mustStart(t, "2026-03-13T19:30:00Z")
	d2 := mustStart(t, "2026-04-04T19:30:00Z")
	events := []*Event{
		New("Zeta", nil, "", 30),
		New("Later", d2, "", 30),
		New("Alpha", nil, "", 30),
		New("Sooner", d1, "", 30),
	}

	SortEvents(events)

	wantOrder := []string{"Sooner", "Later", "Alpha", "Zeta"}
	for i, want := range wantOrder {
		if events[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, events[i].Title, want)
		}
	}
}
