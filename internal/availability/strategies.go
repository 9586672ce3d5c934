package availability

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Carvalth/dmhshows/internal/browser"
	"github.com/Carvalth/dmhshows/internal/config"
	"github.com/Carvalth/dmhshows/internal/logger"
	"github.com/Carvalth/dmhshows/internal/scraper"
	"github.com/Carvalth/dmhshows/internal/vendor"
	"github.com/PuerkitoBio/goquery"
)

// BuildCascade wires the full strategy order from a site profile:
// card text, vendor page text, vendor API, network sniff, seat counting.
// session may be nil (browser disabled), which drops the two browser rungs.
func BuildCascade(cfg *config.Config, vendorClient *vendor.Client, session browser.Session) *Resolver {
	table := NewStatusTable(cfg.StatusTable)

	strategies := []Strategy{
		&CardStatusStrategy{Table: table},
		&VendorPageStrategy{
			Table:     table,
			Client:    &http.Client{Timeout: cfg.PageTimeout.Std()},
			UserAgent: cfg.UserAgent,
			Selector:  cfg.Selectors.StatusNote,
			VendorURL: cfg.VendorAPIBase,
		},
	}
	if vendorClient != nil {
		strategies = append(strategies, &VendorAPIStrategy{Client: vendorClient})
	}
	if session != nil {
		strategies = append(strategies,
			&NetworkSniffStrategy{Session: session, Match: cfg.SniffMatch},
			&SeatCountStrategy{
				Session:      session,
				SeatSelector: cfg.Selectors.SeatNode,
				TakenTokens:  strings.Split(cfg.Selectors.SeatTaken, ","),
			},
		)
	}

	return NewResolver(cfg.DefaultPct, strategies...)
}

// CardStatusStrategy maps the card's own status text (and, failing that,
// the card's full text) through the phrase table. Free: no network.
type CardStatusStrategy struct {
	Table *StatusTable
}

func (s *CardStatusStrategy) Name() string { return "card_status" }

func (s *CardStatusStrategy) Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool) {
	if pct, ok := s.Table.Lookup(card.StatusText); ok {
		return Resolution{Pct: pct, StatusText: card.StatusText}, true
	}
	// Availability often leaks into the title or card body
	// ("The Nutcracker - SOLD OUT").
	if pct, ok := s.Table.Lookup(card.Title); ok {
		return Resolution{Pct: pct}, true
	}
	if pct, ok := s.Table.Lookup(card.Raw); ok {
		return Resolution{Pct: pct}, true
	}
	return Resolution{}, false
}

// VendorPageStrategy fetches the linked page over plain HTTP and scans its
// status banners and booking buttons through the phrase table. As a side
// effect it records a vendor booking link found on the venue's detail page,
// which the more expensive rungs need.
type VendorPageStrategy struct {
	Table     *StatusTable
	Client    *http.Client
	UserAgent string
	Selector  string // status note selector alternatives
	VendorURL string // vendor base, for booking-link discovery
}

func (s *VendorPageStrategy) Name() string { return "vendor_page" }

func (s *VendorPageStrategy) Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool) {
	pageURL := card.BookingURL
	if pageURL == "" {
		pageURL = card.DetailURL
	}
	if pageURL == "" {
		return Resolution{}, false
	}

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		logger.Debug("vendor page fetch failed", logger.Fields{"url": pageURL, "error": err.Error()})
		return Resolution{}, false
	}

	if card.BookingURL == "" {
		card.BookingURL = s.findBookingLink(doc, pageURL)
	}

	var resolved *Resolution
	for _, alt := range strings.Split(s.Selector, ",") {
		doc.Find(strings.TrimSpace(alt)).EachWithBreak(func(i int, note *goquery.Selection) bool {
			text := strings.TrimSpace(note.Text())
			if pct, ok := s.Table.Lookup(text); ok {
				resolved = &Resolution{Pct: pct, StatusText: squash(text)}
				return false
			}
			return true
		})
		if resolved != nil {
			return *resolved, true
		}
	}
	return Resolution{}, false
}

func (s *VendorPageStrategy) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// findBookingLink locates an anchor pointing at the vendor domain or at an
// /events/{id} path on the venue's detail page.
func (s *VendorPageStrategy) findBookingLink(doc *goquery.Document, base string) string {
	vendorHost := ""
	if v, err := url.Parse(s.VendorURL); err == nil {
		vendorHost = strings.ToLower(v.Host)
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		abs := resolveURL(href, base)
		if abs == "" {
			return true
		}
		u, err := url.Parse(abs)
		if err != nil {
			return true
		}
		if (vendorHost != "" && strings.EqualFold(u.Host, vendorHost)) || vendor.EventIDFromURL(abs) != "" {
			found = abs
			return false
		}
		return true
	})
	return found
}

// VendorAPIStrategy computes percent sold from the vendor's availability
// endpoint. Requires a booking URL carrying an event ID.
type VendorAPIStrategy struct {
	Client *vendor.Client
}

func (s *VendorAPIStrategy) Name() string { return "vendor_api" }

func (s *VendorAPIStrategy) Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool) {
	id := vendor.EventIDFromURL(card.BookingURL)
	if id == "" {
		return Resolution{}, false
	}

	avail, err := s.Client.FetchAvailability(ctx, id)
	if err != nil {
		logger.Debug("vendor API miss", logger.Fields{"event_id": id, "error": err.Error()})
		return Resolution{}, false
	}
	pct, ok := avail.Pct()
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Pct: pct}, true
}

// NetworkSniffStrategy loads the booking page in a browser tab and parses
// availability JSON captured off the wire.
type NetworkSniffStrategy struct {
	Session browser.Session
	Match   string
}

func (s *NetworkSniffStrategy) Name() string { return "network_sniff" }

func (s *NetworkSniffStrategy) Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool) {
	if card.BookingURL == "" {
		return Resolution{}, false
	}

	bodies, err := s.Session.SniffJSON(ctx, card.BookingURL, s.Match)
	if err != nil {
		logger.Debug("network sniff failed", logger.Fields{"url": card.BookingURL, "error": err.Error()})
		return Resolution{}, false
	}

	for _, body := range bodies {
		avail, ok := vendor.ParsePayload(body)
		if !ok {
			continue
		}
		if pct, ok := avail.Pct(); ok {
			return Resolution{Pct: pct}, true
		}
	}
	return Resolution{}, false
}

// SeatCountStrategy renders the seat map and counts taken seats in the DOM.
// Most expensive rung: a full render plus per-seat node inspection.
type SeatCountStrategy struct {
	Session      browser.Session
	SeatSelector string
	TakenTokens  []string
}

func (s *SeatCountStrategy) Name() string { return "seat_count" }

func (s *SeatCountStrategy) Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool) {
	if card.BookingURL == "" {
		return Resolution{}, false
	}

	html, err := s.Session.HTML(ctx, card.BookingURL, "")
	if err != nil {
		logger.Debug("seat map render failed", logger.Fields{"url": card.BookingURL, "error": err.Error()})
		return Resolution{}, false
	}

	sold, capacity, ok := CountSeats(html, s.SeatSelector, s.TakenTokens)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Pct: sold * 100 / capacity}, true
}

func resolveURL(href, base string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(h)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
