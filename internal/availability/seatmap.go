package availability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountSeats inspects a rendered seat-selection page and counts seat nodes
// matching seatSelector, splitting them into taken and total. A seat is
// taken when its class, data-status, or aria-disabled attribute carries one
// of takenTokens. Returns ok=false when the page exposes no seat nodes.
func CountSeats(html, seatSelector string, takenTokens []string) (sold, capacity int, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, 0, false
	}

	doc.Find(seatSelector).Each(func(i int, seat *goquery.Selection) {
		capacity++
		if seatTaken(seat, takenTokens) {
			sold++
		}
	})

	if capacity == 0 {
		return 0, 0, false
	}
	return sold, capacity, true
}

func seatTaken(seat *goquery.Selection, tokens []string) bool {
	markers := strings.ToLower(strings.Join([]string{
		seat.AttrOr("class", ""),
		seat.AttrOr("data-status", ""),
		seat.AttrOr("data-state", ""),
	}, " "))

	if seat.AttrOr("aria-disabled", "") == "true" {
		return true
	}
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" && strings.Contains(markers, tok) {
			return true
		}
	}
	return false
}
