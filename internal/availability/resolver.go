package availability

import (
	"context"
	"sync"
	"time"

	"github.com/Carvalth/dmhshows/internal/event"
	"github.com/Carvalth/dmhshows/internal/logger"
	"github.com/Carvalth/dmhshows/internal/scraper"
)

// Resolution is one strategy's answer for an event.
type Resolution struct {
	Pct        int
	StatusText string // status phrase the strategy derived, if any
	Strategy   string // which strategy answered
}

// Strategy is one rung of the availability cascade. Resolve returns
// ok=false to fall through; errors are swallowed inside the strategy and
// surface only as a fall-through (logged at DEBUG).
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, card *scraper.Card) (Resolution, bool)
}

// Resolver runs the strategy cascade, cheapest first, and applies the
// default percentage when every rung falls through.
type Resolver struct {
	strategies []Strategy
	defaultPct int
}

// NewResolver builds a resolver over an ordered strategy list.
func NewResolver(defaultPct int, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, defaultPct: defaultPct}
}

// Resolve determines the override percentage for one card. It never fails:
// the worst case is the default percentage.
func (r *Resolver) Resolve(ctx context.Context, card *scraper.Card) Resolution {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			break
		}
		res, ok := s.Resolve(ctx, card)
		if !ok {
			continue
		}
		res.Pct = event.ClampPct(res.Pct)
		res.Strategy = s.Name()
		logger.IncrCounter("availability.strategy." + s.Name())
		logger.Debug("availability resolved", logger.Fields{
			"title":    card.Title,
			"strategy": s.Name(),
			"pct":      res.Pct,
		})
		return res
	}

	logger.IncrCounter("availability.strategy.default")
	return Resolution{Pct: r.defaultPct, Strategy: "default"}
}

// ResolveAll fans cards out over a fixed-size worker pool and assembles
// normalized events in input order. Per-card work is bounded by the
// context; individual failures degrade to the default percentage.
func (r *Resolver) ResolveAll(ctx context.Context, cards []scraper.Card, workers int) []*event.Event {
	if workers < 1 {
		workers = 1
	}

	events := make([]*event.Event, len(cards))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				card := cards[i]
				started := time.Now()
				res := r.Resolve(ctx, &card)
				logger.RecordTiming("availability.resolve", time.Since(started))

				status := card.StatusText
				if status == "" {
					status = res.StatusText
				}

				evt := event.New(card.Title, event.ParseStart(card.DateText, card.TimeText), status, res.Pct)
				evt.DetailURL = card.DetailURL
				evt.BookingURL = card.BookingURL
				evt.Raw = card.Raw
				evt.SourceURL = card.SourceURL
				events[i] = evt
			}
		}()
	}

	for i := range cards {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	// A cancelled run leaves unprocessed slots; drop them.
	out := make([]*event.Event, 0, len(events))
	for _, e := range events {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
