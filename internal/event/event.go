package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Event represents a single show extracted from the venue's what's-on
// listing, enriched with a resolved availability estimate.
type Event struct {
	Title       string     `json:"title"`
	Start       *time.Time `json:"start"` // nil serializes as JSON null
	Status      string     `json:"status"`
	OverridePct int        `json:"override_pct"` // 0..100, percent sold

	DetailURL  string    `json:"detail_url,omitempty"`
	BookingURL string    `json:"booking_url,omitempty"`
	Raw        string    `json:"-"`
	SourceURL  string    `json:"-"`
	FetchedAt  time.Time `json:"-"`
}

// Key returns a deterministic dedup key built from the normalized title
// and the start date. Two cards pointing at the same show collapse to the
// same key even when one carries a time and the other only a date.
func Key(title string, start *time.Time) string {
	day := ""
	if start != nil {
		day = start.UTC().Format("2006-01-02")
	}
	h := sha1.New()
	h.Write([]byte(NormalizeTitle(title) + "|" + day))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Key returns the event's dedup key.
func (e *Event) Key() string {
	return Key(e.Title, e.Start)
}

// NormalizeTitle lowercases, collapses whitespace, and strips availability
// suffixes so that "Swan Lake  - SOLD OUT" and "Swan Lake" compare equal.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.Join(strings.Fields(t), " ")

	for _, suffix := range []string{
		"- sold out", "– sold out", "(sold out)",
		"- extra date", "– extra date", "(extra date)",
		"- cancelled", "– cancelled", "(cancelled)",
	} {
		t = strings.TrimSpace(strings.TrimSuffix(t, suffix))
	}
	return t
}

// New creates an Event with FetchedAt populated and the percentage clamped.
func New(title string, start *time.Time, status string, pct int) *Event {
	return &Event{
		Title:       strings.TrimSpace(title),
		Start:       start,
		Status:      strings.TrimSpace(status),
		OverridePct: ClampPct(pct),
		FetchedAt:   time.Now().UTC(),
	}
}

// ClampPct bounds a percentage to 0..100.
func ClampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
