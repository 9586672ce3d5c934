// Package filter narrows the normalized event list before output.
//
// Criteria: date ranges, title and status substrings (case-insensitive),
// override-percentage bounds, and weekends-only. Filters are built from
// the CLI's compact expression syntax, e.g.
//
//	--filter "pct>=80,title~swan,weekends"
package filter

import (
	"strings"
	"time"

	"github.com/Carvalth/dmhshows/internal/event"
)

// Filter represents event filtering criteria. Zero value matches all.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time

	// Case-insensitive substring matches; any one of the listed values.
	Titles   []string
	Statuses []string

	// Percentage bounds; nil means unbounded.
	MinPct *int
	MaxPct *int

	WeekendsOnly bool
}

// Apply returns the events matching every set criterion.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	out := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			out = append(out, evt)
		}
	}
	return out
}

// Matches reports whether a single event passes the filter.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.DateFrom != nil && (evt.Start == nil || evt.Start.Before(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && (evt.Start == nil || evt.Start.After(*f.DateTo)) {
		return false
	}
	if f.WeekendsOnly && !evt.IsWeekend() {
		return false
	}
	if f.MinPct != nil && evt.OverridePct < *f.MinPct {
		return false
	}
	if f.MaxPct != nil && evt.OverridePct > *f.MaxPct {
		return false
	}
	if len(f.Titles) > 0 && !containsAny(evt.Title, f.Titles) {
		return false
	}
	if len(f.Statuses) > 0 && !containsAny(evt.Status, f.Statuses) {
		return false
	}
	return true
}

// IsEmpty reports whether no criteria are set.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil &&
		len(f.Titles) == 0 && len(f.Statuses) == 0 &&
		f.MinPct == nil && f.MaxPct == nil && !f.WeekendsOnly
}

func containsAny(value string, needles []string) bool {
	v := strings.ToLower(value)
	for _, n := range needles {
		if strings.Contains(v, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
