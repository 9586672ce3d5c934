package notifier

import (
	"github.com/Carvalth/dmhshows/internal/event"
)

// Notifier posts sell-out warnings for the given events.
type Notifier interface {
	Notify(events []*event.Event) error
}

// SelectSellouts returns the events at or above the sell-out threshold,
// in input order. Events already reported as fully sold are included;
// the announce command's audience wants to know either way.
func SelectSellouts(events []*event.Event, threshold int) []*event.Event {
	out := make([]*event.Event, 0)
	for _, evt := range events {
		if evt.OverridePct >= threshold {
			out = append(out, evt)
		}
	}
	return out
}
