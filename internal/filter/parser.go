package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse builds a Filter from the compact comma-separated expression used
// by the CLI flag. Supported terms:
//
//	pct>=N, pct<=N       percentage bounds
//	title~TEXT           title substring (repeatable)
//	status~TEXT          status substring (repeatable)
//	from=2006-01-02      start date lower bound (inclusive)
//	to=2006-01-02        start date upper bound (inclusive)
//	weekends             Saturdays and Sundays only
//
// An empty expression yields an empty (match-all) filter.
func Parse(expr string) (*Filter, error) {
	f := &Filter{}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f, nil
	}

	for _, term := range strings.Split(expr, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if err := parseTerm(f, term); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseTerm(f *Filter, term string) error {
	switch {
	case term == "weekends":
		f.WeekendsOnly = true
		return nil

	case strings.HasPrefix(term, "pct>="):
		return parsePctBound(term[len("pct>="):], &f.MinPct)

	case strings.HasPrefix(term, "pct<="):
		return parsePctBound(term[len("pct<="):], &f.MaxPct)

	case strings.HasPrefix(term, "title~"):
		value := strings.TrimSpace(term[len("title~"):])
		if value == "" {
			return fmt.Errorf("filter: empty title term")
		}
		f.Titles = append(f.Titles, value)
		return nil

	case strings.HasPrefix(term, "status~"):
		value := strings.TrimSpace(term[len("status~"):])
		if value == "" {
			return fmt.Errorf("filter: empty status term")
		}
		f.Statuses = append(f.Statuses, value)
		return nil

	case strings.HasPrefix(term, "from="):
		return parseDateBound(term[len("from="):], &f.DateFrom, false)

	case strings.HasPrefix(term, "to="):
		return parseDateBound(term[len("to="):], &f.DateTo, true)

	default:
		return fmt.Errorf("filter: unknown term %q", term)
	}
}

func parsePctBound(value string, target **int) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("filter: percentage bound must be 0..100, got %q", value)
	}
	*target = &n
	return nil
}

func parseDateBound(value string, target **time.Time, endOfDay bool) error {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("filter: date must be YYYY-MM-DD, got %q", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	t = t.UTC()
	*target = &t
	return nil
}
