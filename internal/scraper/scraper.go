package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Carvalth/dmhshows/internal/config"
	"github.com/Carvalth/dmhshows/internal/logger"
	"github.com/PuerkitoBio/goquery"
)

// Card is the raw, unresolved extraction of one listing entry. The
// availability resolver turns cards into normalized events.
type Card struct {
	Title      string
	DateText   string
	TimeText   string
	StatusText string
	DetailURL  string
	BookingURL string
	Raw        string
	SourceURL  string
}

// Scraper fetches the venue's what's-on listing and extracts event cards
// across paginated result pages.
type Scraper struct {
	client *http.Client
	cfg    *config.Config
}

// New creates a Scraper using the profile's listing URL and selectors.
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: cfg.PageTimeout.Std()},
		cfg:    cfg,
	}
}

// FetchCards walks the listing pagination and returns every card found.
// Pagination stops at the profile's page limit, at the first empty page,
// or when no next link can be discovered.
func (s *Scraper) FetchCards(ctx context.Context) ([]Card, error) {
	var cards []Card
	pageURL := s.cfg.ListingURL
	visited := make(map[string]bool)

	for page := 1; page <= s.cfg.MaxPages; page++ {
		if visited[pageURL] {
			break
		}
		visited[pageURL] = true

		started := time.Now()
		doc, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			// Probed pages beyond the first fail soft.
			logger.Warn("listing page fetch failed", logger.Fields{"url": pageURL, "page": page})
			break
		}
		logger.RecordTiming("scrape.page", time.Since(started))

		pageCards := s.parseCards(doc, pageURL)
		logger.Debug("listing page parsed", logger.Fields{"url": pageURL, "cards": len(pageCards)})
		if len(pageCards) == 0 {
			break
		}
		cards = append(cards, pageCards...)

		next := s.nextPageURL(doc, pageURL, page+1)
		if next == "" {
			break
		}
		pageURL = next
	}

	logger.Info("listing scrape complete", logger.Fields{
		"pages": len(visited),
		"cards": len(cards),
	})
	return cards, nil
}

// fetchPage GETs a listing page and parses it.
func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseDocument(resp.Body)
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// parseCards extracts cards using the profile selectors, falling back to
// anchor-based extraction when the card selector matches nothing.
func (s *Scraper) parseCards(doc *goquery.Document, sourceURL string) []Card {
	sel := s.cfg.Selectors
	var cards []Card

	// Strategy 1: configured card selector. Alternatives are tried one at
	// a time and the first that yields cards wins; matching them as a
	// union would extract nested wrappers twice.
	for _, alt := range strings.Split(sel.Card, ",") {
		doc.Find(strings.TrimSpace(alt)).Each(func(i int, card *goquery.Selection) {
			c := Card{
				Title:      textOf(card, sel.Title),
				DateText:   textOf(card, sel.Date),
				TimeText:   textOf(card, sel.Time),
				StatusText: textOf(card, sel.Status),
				Raw:        squash(card.Text()),
				SourceURL:  sourceURL,
			}
			if href, ok := firstHref(card, sel.Link); ok {
				s.assignLink(&c, href, sourceURL)
			}
			if c.Title == "" {
				logger.IncrCounter("scrape.card_skipped_untitled")
				return
			}
			cards = append(cards, c)
		})
		if len(cards) > 0 {
			return cards
		}
	}

	// Strategy 2: event-shaped anchors. Matches markup revisions where the
	// card wrapper class changed but detail links kept their path shape.
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !looksLikeEventLink(href) {
			return
		}
		abs := absolutize(href, sourceURL)
		if abs == "" || seen[abs] {
			return
		}
		title := squash(a.AttrOr("aria-label", ""))
		if title == "" {
			title = squash(a.Text())
		}
		if title == "" || len(title) < 3 {
			return
		}
		seen[abs] = true

		c := Card{
			Title:     title,
			Raw:       squash(a.Text()),
			SourceURL: sourceURL,
		}
		s.assignLink(&c, href, sourceURL)
		// Date and status often live on the nearest enclosing block.
		if parent := a.Closest("article, li, div"); parent.Length() > 0 {
			c.DateText = textOf(parent, s.cfg.Selectors.Date)
			c.StatusText = textOf(parent, s.cfg.Selectors.Status)
		}
		cards = append(cards, c)
	})

	return cards
}

// assignLink stores an absolutized href as either the vendor booking URL
// or the venue detail URL, keyed off the link's host.
func (s *Scraper) assignLink(c *Card, href, base string) {
	abs := absolutize(href, base)
	if abs == "" {
		return
	}
	if s.isVendorHost(abs) {
		c.BookingURL = abs
		return
	}
	c.DetailURL = abs
}

func (s *Scraper) isVendorHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	v, err := url.Parse(s.cfg.VendorAPIBase)
	if err != nil || v.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, v.Host)
}

// nextPageURL discovers the next listing page: a rel=next/pagination link
// when present, otherwise a ?page=N probe on the listing URL.
func (s *Scraper) nextPageURL(doc *goquery.Document, currentURL string, nextPage int) string {
	if href, ok := firstHref(doc.Selection, s.cfg.Selectors.NextPage); ok {
		return absolutize(href, currentURL)
	}

	u, err := url.Parse(s.cfg.ListingURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", nextPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// textOf returns the trimmed text of the first selector alternative that
// matches inside sel.
func textOf(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	for _, alt := range strings.Split(selector, ",") {
		found := sel.Find(strings.TrimSpace(alt)).First()
		if found.Length() == 0 {
			continue
		}
		if text := squash(found.Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstHref returns the href of the first selector alternative that
// matches and carries one.
func firstHref(sel *goquery.Selection, selector string) (string, bool) {
	for _, alt := range strings.Split(selector, ",") {
		found := sel.Find(strings.TrimSpace(alt)).First()
		if found.Length() == 0 {
			continue
		}
		if href, ok := found.Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href), true
		}
	}
	return "", false
}

func looksLikeEventLink(href string) bool {
	h := strings.ToLower(href)
	if strings.Contains(h, "page=") || strings.HasSuffix(strings.TrimRight(h, "/"), "/whats-on") {
		return false
	}
	return strings.Contains(h, "/event") || strings.Contains(h, "/whats-on/") || strings.Contains(h, "/shows/")
}

func absolutize(href, base string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := b.ResolveReference(h)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
