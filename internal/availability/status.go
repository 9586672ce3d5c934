package availability

import (
	"sort"
	"strings"
)

// statusEntry maps a status phrase to a percent-sold estimate. Entries are
// ordered: the first phrase contained in the text wins, so "nearly sold"
// must precede "sold out" and both must precede the generic "on sale".
type statusEntry struct {
	phrase string
	pct    int
}

// defaultTable covers the phrases the venue and vendor have been seen to
// render. Cancelled and off-sale shows count as fully unavailable so the
// front-end still renders them.
var defaultTable = []statusEntry{
	{"nearly sold", 90},
	{"sold out", 100},
	{"off sale", 100},
	{"cancelled", 100},
	{"not available", 100},
	{"last few", 90},
	{"limited availability", 90},
	{"limited", 90},
	{"low availability", 90},
	{"selling fast", 75},
	{"book now", 20},
	{"on sale", 20},
	{"tickets available", 20},
	{"buy tickets", 20},
}

// StatusTable resolves status text against the default phrase table plus
// per-profile overrides.
type StatusTable struct {
	overrides []statusEntry
}

// NewStatusTable creates a table with overrides layered in front of the
// defaults. Override keys are matched the same way: case-insensitive
// substring containment, longest phrase first so the most specific
// override wins regardless of map order.
func NewStatusTable(overrides map[string]int) *StatusTable {
	entries := make([]statusEntry, 0, len(overrides))
	for phrase, pct := range overrides {
		entries = append(entries, statusEntry{strings.ToLower(phrase), pct})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].phrase) != len(entries[j].phrase) {
			return len(entries[i].phrase) > len(entries[j].phrase)
		}
		return entries[i].phrase < entries[j].phrase
	})
	return &StatusTable{overrides: entries}
}

// Lookup maps status text to a percentage. Returns ok=false when no known
// phrase appears, which cascades to the next strategy.
func (t *StatusTable) Lookup(text string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	for _, e := range t.overrides {
		if strings.Contains(s, e.phrase) {
			return e.pct, true
		}
	}
	for _, e := range defaultTable {
		if strings.Contains(s, e.phrase) {
			return e.pct, true
		}
	}
	return 0, false
}
