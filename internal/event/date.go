package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Venue listings mix several date renderings, sometimes with a weekday
// prefix, sometimes without a year, sometimes as a run-of-dates range.
// ParseStart normalizes all of them to a single UTC instant, or nil when
// nothing parseable remains.

var (
	rangeSplitRe = regexp.MustCompile(`\s*(?:-|–|—|&|\bto\b|\buntil\b)\s*`)
	timeRe       = regexp.MustCompile(`(?i)\b(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)\b`)
	time24Re     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	weekdayRe    = regexp.MustCompile(`(?i)^(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*\s+`)
)

// dateLayouts are tried in order against the cleaned date text.
// UK venue, so day precedes month throughout.
var dateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"02/01/2006",
	"02/01/06",
	"2/1/2006",
	"2/1/06",
	"2006-01-02",
	"January 2, 2006",
}

// yearlessLayouts are tried when the text carries no year; the resulting
// date is pinned to the current year, rolling forward when it has already
// passed (listings only advertise upcoming shows).
var yearlessLayouts = []string{
	"2 January",
	"2 Jan",
	"02/01",
}

// ParseStart combines a date string and an optional time string into a
// single start instant. Returns nil when the date cannot be parsed.
func ParseStart(dateText, timeText string) *time.Time {
	day := ParseDate(dateText)
	if day == nil {
		return nil
	}

	h, m, ok := parseClock(timeText)
	if !ok {
		// Some listings fold the time into the date cell.
		h, m, ok = parseClock(dateText)
	}
	if !ok {
		return day
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
	return &t
}

// ParseDate parses the date portion only. Ranges like "13 - 15 March 2026"
// resolve to their first day. Returns nil if parsing fails.
func ParseDate(dateText string) *time.Time {
	text := cleanDateText(dateText)
	if text == "" {
		return nil
	}

	if t := parseSingleDate(text); t != nil {
		return t
	}

	// A range's first fragment may lack the month/year ("13 - 15 March"):
	// borrow them from the last fragment.
	if parts := rangeSplitRe.Split(text, -1); len(parts) > 1 {
		first := strings.TrimSpace(parts[0])
		last := strings.TrimSpace(parts[len(parts)-1])
		if t := parseSingleDate(first); t != nil {
			return t
		}
		if dayNum, err := strconv.Atoi(first); err == nil {
			if anchor := parseSingleDate(last); anchor != nil {
				t := time.Date(anchor.Year(), anchor.Month(), dayNum, 0, 0, 0, 0, time.UTC)
				return &t
			}
		}
		text = last
	}

	return parseSingleDate(text)
}

func parseSingleDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			t = t.UTC()
			return &t
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		now := time.Now().UTC()
		pinned := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if pinned.Before(now.Truncate(24 * time.Hour)) {
			pinned = pinned.AddDate(1, 0, 0)
		}
		return &pinned
	}

	return nil
}

// parseClock extracts a wall-clock time from text like "7.30pm", "7pm",
// "19:30" or "Doors 6.30pm / Show 7.30pm" (first time wins).
func parseClock(text string) (hour, minute int, ok bool) {
	if m := timeRe.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		if h >= 1 && h <= 12 && mm < 60 {
			if strings.EqualFold(m[3], "pm") && h != 12 {
				h += 12
			}
			if strings.EqualFold(m[3], "am") && h == 12 {
				h = 0
			}
			return h, mm, true
		}
	}

	if m := time24Re.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h < 24 && mm < 60 {
			return h, mm, true
		}
	}

	return 0, 0, false
}

var ordinalRe = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

// cleanDateText strips weekday prefixes, ordinal suffixes, and trailing
// clock fragments: "Friday 13th March 2026 7.30pm" -> "13 March 2026".
func cleanDateText(text string) string {
	t := strings.TrimSpace(text)
	t = strings.Join(strings.Fields(t), " ")
	t = weekdayRe.ReplaceAllString(t, "")
	t = ordinalRe.ReplaceAllString(t, "$1")
	t = timeRe.ReplaceAllString(t, "")
	t = time24Re.ReplaceAllString(t, "")
	t = strings.Trim(t, " ,|/")
	return strings.TrimSpace(t)
}

// IsPast reports whether the event's start has passed. Events without a
// parseable start are never treated as past.
func (e *Event) IsPast() bool {
	if e.Start == nil {
		return false
	}
	return e.Start.Before(time.Now().UTC())
}

// IsWeekend reports whether the event falls on a Saturday or Sunday.
// Returns false when the start is unknown.
func (e *Event) IsWeekend() bool {
	if e.Start == nil {
		return false
	}
	wd := e.Start.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
