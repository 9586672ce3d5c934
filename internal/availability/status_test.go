package availability

import "testing"

func TestStatusTableLookup(t *testing.T) {
	table := NewStatusTable(nil)

	tests := []struct {
		text    string
		wantPct int
		wantOK  bool
	}{
		{"Sold out", 100, true},
		{"SOLD OUT", 100, true},
		{"Nearly sold out", 90, true},
		{"The Nutcracker - SOLD OUT", 100, true},
		{"Limited availability", 90, true},
		{"Last few tickets!", 90, true},
		{"Selling fast", 75, true},
		{"Book now", 20, true},
		{"On sale Friday", 20, true},
		{"Off sale", 100, true},
		{"Cancelled", 100, true},
		{"", 0, false},
		{"More info", 0, false},
	}

	for _, tt := range tests {
		pct, ok := table.Lookup(tt.text)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && pct != tt.wantPct {
			t.Errorf("Lookup(%q) = %d, want %d", tt.text, pct, tt.wantPct)
		}
	}
}

func TestStatusTableOverrides(t *testing.T) {
	table := NewStatusTable(map[string]int{
		"waiting list": 95,
		"sold out":     99, // profile can re-map a default phrase
	})

	if pct, ok := table.Lookup("Join the waiting list"); !ok || pct != 95 {
		t.Errorf("override phrase: got %d, %v", pct, ok)
	}
	if pct, _ := table.Lookup("Sold out"); pct != 99 {
		t.Errorf("override should shadow the default table, got %d", pct)
	}
}

func TestStatusTableOverridesMostSpecificWins(t *testing.T) {
	// Map iteration order must not decide which override phrase matches.
	table := NewStatusTable(map[string]int{
		"sold":             50,
		"sold out tonight": 100,
	})

	for i := 0; i < 20; i++ {
		if pct, _ := table.Lookup("Sold out tonight"); pct != 100 {
			t.Fatalf("longest override phrase should win, got %d", pct)
		}
	}
}
