package event

import "sort"

// Deduplicate collapses events sharing the same (title, start) key,
// preserving first-occurrence order. When duplicates disagree, the record
// with the stronger availability signal wins: a non-default percentage
// beats the default, and a non-empty status beats an empty one.
func Deduplicate(events []*Event, defaultPct int) []*Event {
	type entry struct {
		index int
		evt   *Event
	}

	byKey := make(map[string]*entry)
	order := make([]string, 0, len(events))

	for _, evt := range events {
		if evt == nil || evt.Title == "" {
			continue
		}
		key := evt.Key()

		existing, seen := byKey[key]
		if !seen {
			byKey[key] = &entry{index: len(order), evt: evt}
			order = append(order, key)
			continue
		}
		if richer(evt, existing.evt, defaultPct) {
			existing.evt = evt
		}
	}

	out := make([]*Event, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key].evt)
	}
	return out
}

// richer reports whether candidate carries a stronger signal than current.
func richer(candidate, current *Event, defaultPct int) bool {
	candResolved := candidate.OverridePct != defaultPct
	currResolved := current.OverridePct != defaultPct
	if candResolved != currResolved {
		return candResolved
	}
	if (candidate.Status != "") != (current.Status != "") {
		return candidate.Status != ""
	}
	// Same day either way; prefer the record that carries a curtain time.
	return hasClock(candidate) && !hasClock(current)
}

func hasClock(e *Event) bool {
	if e.Start == nil {
		return false
	}
	return e.Start.Hour() != 0 || e.Start.Minute() != 0
}

// SortEvents orders events by start ascending with unknown starts last,
// breaking ties on title. This is the serialization order.
func SortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case a.Start == nil && b.Start == nil:
			return a.Title < b.Title
		case a.Start == nil:
			return false
		case b.Start == nil:
			return true
		case !a.Start.Equal(*b.Start):
			return a.Start.Before(*b.Start)
		default:
			return a.Title < b.Title
		}
	})
}
