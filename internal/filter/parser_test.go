package filter

import "testing"

func TestParse(t *testing.T) {
	f, err := Parse("pct>=80, title~swan, weekends, from=2026-03-01, to=2026-03-31")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.MinPct == nil || *f.MinPct != 80 {
		t.Errorf("MinPct: got %v", f.MinPct)
	}
	if len(f.Titles) != 1 || f.Titles[0] != "swan" {
		t.Errorf("Titles: got %v", f.Titles)
	}
	if !f.WeekendsOnly {
		t.Error("weekends term not applied")
	}
	if f.DateFrom == nil || f.DateFrom.Day() != 1 {
		t.Errorf("DateFrom: got %v", f.DateFrom)
	}
	if f.DateTo == nil || f.DateTo.Day() != 31 {
		t.Errorf("DateTo: got %v", f.DateTo)
	}
	// to= is inclusive: a show late on the 31st still matches.
	if f.DateTo.Hour() != 23 {
		t.Errorf("DateTo should extend to end of day, got %v", f.DateTo)
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") failed: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("empty expression should produce an empty filter")
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"pct>=150",
		"pct<=-1",
		"pct>=abc",
		"title~",
		"status~",
		"from=March 2026",
		"frobnicate",
	}
	for _, expr := range bad {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) should fail", expr)
		}
	}
}

func TestParseRepeatedTerms(t *testing.T) {
	f, err := Parse("title~swan,title~gala,status~sold,status~limited")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Titles) != 2 || len(f.Statuses) != 2 {
		t.Errorf("repeatable terms: got titles=%v statuses=%v", f.Titles, f.Statuses)
	}
}
