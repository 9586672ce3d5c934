package filter

import (
	"testing"
	"time"

	"github.com/Carvalth/dmhshows/internal/event"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}
	return &parsed
}

func testEvents(t *testing.T) []*event.Event {
	return []*event.Event{
		event.New("Swan Lake", ts(t, "2026-03-13T19:30:00Z"), "Book now", 20),       // Friday
		event.New("Comedy Gala", ts(t, "2026-03-14T20:00:00Z"), "Selling fast", 75), // Saturday
		event.New("The Nutcracker", ts(t, "2026-12-19T19:00:00Z"), "Sold out", 100), // Saturday
		event.New("TBA Special", nil, "", 30),
	}
}

func TestFilterPctBounds(t *testing.T) {
	min := 75
	f := &Filter{MinPct: &min}
	got := f.Apply(testEvents(t))
	if len(got) != 2 {
		t.Fatalf("expected 2 events at >=75, got %d", len(got))
	}

	max := 30
	f = &Filter{MaxPct: &max}
	if got := f.Apply(testEvents(t)); len(got) != 2 {
		t.Errorf("expected 2 events at <=30, got %d", len(got))
	}
}

func TestFilterTitleAndStatus(t *testing.T) {
	f := &Filter{Titles: []string{"swan"}}
	got := f.Apply(testEvents(t))
	if len(got) != 1 || got[0].Title != "Swan Lake" {
		t.Errorf("title filter: got %+v", got)
	}

	f = &Filter{Statuses: []string{"sold out"}}
	got = f.Apply(testEvents(t))
	if len(got) != 1 || got[0].Title != "The Nutcracker" {
		t.Errorf("status filter: got %+v", got)
	}
}

func TestFilterWeekendsExcludesUnknownStarts(t *testing.T) {
	f := &Filter{WeekendsOnly: true}
	got := f.Apply(testEvents(t))
	if len(got) != 2 {
		t.Fatalf("expected the 2 Saturday events, got %d", len(got))
	}
	for _, evt := range got {
		if evt.Start == nil {
			t.Error("weekends-only must exclude events without a start")
		}
	}
}

func TestFilterDateRangeExcludesUnknownStarts(t *testing.T) {
	f := &Filter{DateFrom: ts(t, "2026-06-01T00:00:00Z")}
	got := f.Apply(testEvents(t))
	if len(got) != 1 || got[0].Title != "The Nutcracker" {
		t.Errorf("date range: got %+v", got)
	}
}

func TestFilterEmptyMatchesAll(t *testing.T) {
	f := &Filter{}
	if !f.IsEmpty() {
		t.Error("zero filter should be empty")
	}
	if got := f.Apply(testEvents(t)); len(got) != 4 {
		t.Errorf("empty filter should pass everything, got %d", len(got))
	}
}
