// Package config holds the site profile: listing URL, card selectors,
// vendor endpoints, status phrase table, and run limits. Compiled-in
// defaults target De Montfort Hall; a YAML profile and a couple of
// environment toggles can override them without a rebuild.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Selectors identifies the listing-page DOM pieces a card is built from.
// Each field is a goquery selector; several may be comma-separated
// alternatives tried in document order.
type Selectors struct {
	Card       string `yaml:"card"`
	Title      string `yaml:"title"`
	Date       string `yaml:"date"`
	Time       string `yaml:"time"`
	Status     string `yaml:"status"`
	Link       string `yaml:"link"`
	NextPage   string `yaml:"next_page"`
	SeatNode   string `yaml:"seat_node"`
	SeatTaken  string `yaml:"seat_taken"`
	StatusNote string `yaml:"status_note"` // status banner on the vendor page
}

// Duration is a time.Duration that decodes from YAML strings like "30s".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full site profile for one run.
type Config struct {
	ListingURL    string         `yaml:"listing_url"`
	VendorAPIBase string         `yaml:"vendor_api_base"`
	SniffMatch    string         `yaml:"sniff_match"` // URL substring marking availability payloads
	UserAgent     string         `yaml:"user_agent"`
	Selectors     Selectors      `yaml:"selectors"`
	StatusTable   map[string]int `yaml:"status_table,omitempty"`

	MaxPages    int      `yaml:"max_pages"`
	Concurrency int      `yaml:"concurrency"`
	Headless    bool     `yaml:"headless"`
	UseBrowser  bool     `yaml:"use_browser"`
	PageTimeout Duration `yaml:"page_timeout"`
	RatePerSec  float64  `yaml:"rate_per_sec"`
	DefaultPct  int      `yaml:"default_pct"`
}

// Environment toggles honored as defaults (flags still win).
const (
	EnvHeadless = "DMH_HEADLESS"
	EnvMaxPages = "DMH_MAX_PAGES"
)

// Default returns the compiled-in De Montfort Hall profile.
func Default() *Config {
	cfg := &Config{
		ListingURL:    "https://www.demontforthall.co.uk/whats-on/",
		VendorAPIBase: "https://tickets.demontforthall.co.uk",
		SniffMatch:    "availability",
		UserAgent:     "dmhshows/1.0 (github.com/Carvalth/dmhshows)",
		Selectors: Selectors{
			Card:       ".event-card, article.show, li.event",
			Title:      ".event-card__title, h3 a, h2",
			Date:       ".event-card__date, .date, time",
			Time:       ".event-card__time, .time",
			Status:     ".event-card__status, .availability, .badge",
			Link:       "a.event-card__link, a",
			NextPage:   "a[rel=next], .pagination a.next",
			SeatNode:   ".seat, [data-seat]",
			SeatTaken:  "unavailable,taken,sold,booked",
			StatusNote: ".availability-banner, .sold-out-notice, .booking-status, button.book",
		},
		MaxPages:    10,
		Concurrency: 3,
		Headless:    true,
		UseBrowser:  true,
		PageTimeout: Duration(30 * time.Second),
		RatePerSec:  1,
		DefaultPct:  30,
	}
	applyEnv(cfg)
	return cfg
}

// Load reads a YAML profile and layers it over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the profile for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("config: listing_url is required")
	}
	if c.Selectors.Card == "" || c.Selectors.Title == "" {
		return fmt.Errorf("config: card and title selectors are required")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("config: max_pages must be >= 1, got %d", c.MaxPages)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.DefaultPct < 0 || c.DefaultPct > 100 {
		return fmt.Errorf("config: default_pct must be 0..100, got %d", c.DefaultPct)
	}
	for phrase, pct := range c.StatusTable {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("config: status_table[%q] must be 0..100, got %d", phrase, pct)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHeadless); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = b
		}
	}
	if v := os.Getenv(EnvMaxPages); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPages = n
		}
	}
}
