package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// Session is the browser capability the availability strategies consume.
// Implementations must be safe for concurrent use.
type Session interface {
	// HTML navigates to url, optionally waits for waitSelector to become
	// visible, and returns the rendered document HTML.
	HTML(ctx context.Context, url, waitSelector string) (string, error)

	// SniffJSON navigates to url and captures the bodies of JSON responses
	// whose request URL contains match. Body order is not guaranteed.
	SniffJSON(ctx context.Context, url, match string) ([][]byte, error)
}

// Options configures the shared browser process.
type Options struct {
	Headless    bool
	UserAgent   string
	Tabs        int           // concurrent tab limit, default 3
	PageTimeout time.Duration // per-call budget, default 30s
	RatePerSec  float64       // politeness limit toward the vendor, default 1
	SettleDelay time.Duration // wait for late XHRs after navigation, default 3s
}

// Browser owns one headless Chrome process and hands out tabs from a
// fixed-size pool. All navigation shares a single rate limiter.
type Browser struct {
	allocCtx     context.Context
	cancelAlloc  context.CancelFunc
	browserCtx   context.Context
	cancelBrowse context.CancelFunc

	tabs        chan struct{}
	limiter     *rate.Limiter
	pageTimeout time.Duration
	settleDelay time.Duration
}

// Start launches the browser process. Callers must Close it.
func Start(ctx context.Context, opts Options) (*Browser, error) {
	if opts.Tabs <= 0 {
		opts.Tabs = 3
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 3 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowse := chromedp.NewContext(allocCtx)

	// Launch eagerly so a missing Chrome binary fails here, not midway
	// through the event fan-out.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowse()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		allocCtx:     allocCtx,
		cancelAlloc:  cancelAlloc,
		browserCtx:   browserCtx,
		cancelBrowse: cancelBrowse,
		tabs:         make(chan struct{}, opts.Tabs),
		limiter:      rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		pageTimeout:  opts.PageTimeout,
		settleDelay:  opts.SettleDelay,
	}, nil
}

// Close shuts the browser process down.
func (b *Browser) Close() {
	b.cancelBrowse()
	b.cancelAlloc()
}

// acquireTab blocks until a pool slot and a rate token are available.
func (b *Browser) acquireTab(ctx context.Context) error {
	select {
	case b.tabs <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := b.limiter.Wait(ctx); err != nil {
		<-b.tabs
		return err
	}
	return nil
}

func (b *Browser) releaseTab() {
	<-b.tabs
}

// HTML implements Session.
func (b *Browser) HTML(ctx context.Context, url, waitSelector string) (string, error) {
	if err := b.acquireTab(ctx); err != nil {
		return "", err
	}
	defer b.releaseTab()

	tab, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tab, b.pageTimeout)
	defer cancel()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
	} else {
		actions = append(actions, chromedp.Sleep(b.settleDelay))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// SniffJSON implements Session. It records matching JSON responses while
// the page loads, then pulls their bodies once loading finishes.
func (b *Browser) SniffJSON(ctx context.Context, url, match string) ([][]byte, error) {
	if err := b.acquireTab(ctx); err != nil {
		return nil, err
	}
	defer b.releaseTab()

	tab, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tab, b.pageTimeout)
	defer cancel()

	col := newSniffCollector(match, func(reqID network.RequestID) ([]byte, error) {
		c := chromedp.FromContext(tabCtx)
		return network.GetResponseBody(reqID).Do(cdp.WithExecutor(tabCtx, c.Target))
	})
	chromedp.ListenTarget(tabCtx, col.onEvent)

	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(b.settleDelay),
	)
	bodies := col.collect()
	if err != nil {
		return nil, fmt.Errorf("sniffing %s: %w", url, err)
	}
	return bodies, nil
}

// sniffCollector tracks matching JSON responses during a page load and
// pulls their bodies once loading finishes.
type sniffCollector struct {
	match   string
	getBody func(network.RequestID) ([]byte, error)
	mu      sync.Mutex
	pending map[network.RequestID]bool
	bodies  [][]byte
	fetch   sync.WaitGroup
	sealed  bool // set by collect; late events must not Add to fetch
}

func newSniffCollector(match string, getBody func(network.RequestID) ([]byte, error)) *sniffCollector {
	return &sniffCollector{
		match:   match,
		getBody: getBody,
		pending: make(map[network.RequestID]bool),
	}
}

func (s *sniffCollector) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventResponseReceived:
		if !strings.Contains(e.Response.URL, s.match) {
			return
		}
		if !strings.Contains(strings.ToLower(e.Response.MimeType), "json") {
			return
		}
		s.mu.Lock()
		s.pending[e.RequestID] = true
		s.mu.Unlock()

	case *network.EventLoadingFinished:
		s.mu.Lock()
		matched := s.pending[e.RequestID] && !s.sealed
		delete(s.pending, e.RequestID)
		if matched {
			// Body retrieval must not run on the event goroutine.
			s.fetch.Add(1)
		}
		s.mu.Unlock()
		if !matched {
			return
		}

		reqID := e.RequestID
		go func() {
			defer s.fetch.Done()
			body, err := s.getBody(reqID)
			if err != nil {
				return
			}
			s.mu.Lock()
			s.bodies = append(s.bodies, body)
			s.mu.Unlock()
		}()
	}
}

// collect seals the collector against further body fetches and waits for
// the in-flight ones. Events delivered after collect are dropped.
func (s *sniffCollector) collect() [][]byte {
	s.mu.Lock()
	s.sealed = true
	s.mu.Unlock()
	s.fetch.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies
}
