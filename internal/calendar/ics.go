// Package calendar renders events as an iCalendar document for the
// --format ics output mode.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Carvalth/dmhshows/internal/event"
)

const defaultDuration = 2 * time.Hour

// GenerateICS renders events as a single VCALENDAR with one VEVENT per
// show. Events without a parseable start are skipped; a calendar entry
// at an unknown time is worse than none.
func GenerateICS(events []*event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//dmhshows//dmhshows//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	now := time.Now().UTC()
	for _, evt := range events {
		if evt.Start == nil {
			continue
		}
		writeVEvent(&ics, evt, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeVEvent(ics *strings.Builder, evt *event.Event, stamp time.Time) {
	start := evt.Start.UTC()
	end := start.Add(defaultDuration)

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@dmhshows\r\n", evt.Key())
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(stamp))
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(end))
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(evt.Title))

	description := fmt.Sprintf("Estimated %d%% sold", evt.OverridePct)
	if evt.Status != "" {
		description = fmt.Sprintf("%s. Status: %s", description, evt.Status)
	}
	if evt.BookingURL != "" {
		description = fmt.Sprintf("%s\nBook: %s", description, evt.BookingURL)
	} else if evt.DetailURL != "" {
		description = fmt.Sprintf("%s\nDetails: %s", description, evt.DetailURL)
	}
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(description))

	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time in the iCalendar UTC format (YYYYMMDDTHHMMSSZ).
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
