package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Carvalth/dmhshows/internal/calendar"
	"github.com/Carvalth/dmhshows/internal/event"
)

// OutputFormat selects how results are rendered on stdout.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// WriteOutput renders the resolved events in the given format.
func WriteOutput(w io.Writer, events []*event.Event, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, events)
	case FormatICS:
		_, err := fmt.Fprint(w, calendar.GenerateICS(events))
		return err
	default:
		return writeText(w, events, verbose)
	}
}

func writeJSON(w io.Writer, events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func writeText(w io.Writer, events []*event.Event, verbose bool) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No shows found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d show(s):\n\n", len(events))
	for _, evt := range events {
		when := "date TBC"
		if evt.Start != nil {
			when = evt.Start.Format("Mon 2 Jan 2006 15:04")
		}
		fmt.Fprintf(w, "  %s\n    %s  ~%d%% sold", evt.Title, when, evt.OverridePct)
		if evt.Status != "" {
			fmt.Fprintf(w, "  (%s)", evt.Status)
		}
		fmt.Fprintln(w)
		if verbose {
			if evt.BookingURL != "" {
				fmt.Fprintf(w, "    book: %s\n", evt.BookingURL)
			} else if evt.DetailURL != "" {
				fmt.Fprintf(w, "    info: %s\n", evt.DetailURL)
			}
		}
	}
	return nil
}
