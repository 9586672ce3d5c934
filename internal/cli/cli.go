package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Carvalth/dmhshows/internal/availability"
	"github.com/Carvalth/dmhshows/internal/browser"
	"github.com/Carvalth/dmhshows/internal/config"
	"github.com/Carvalth/dmhshows/internal/event"
	"github.com/Carvalth/dmhshows/internal/filter"
	"github.com/Carvalth/dmhshows/internal/logger"
	"github.com/Carvalth/dmhshows/internal/scraper"
	"github.com/Carvalth/dmhshows/internal/storage"
	"github.com/Carvalth/dmhshows/internal/vendor"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagOut         string
	flagFormat      string
	flagConfig      string
	flagFilter      string
	flagMaxPages    int
	flagConcurrency int
	flagHeadless    bool
	flagNoBrowser   bool
	flagVerbose     bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dmhshows",
		Short: "Scrape De Montfort Hall show listings with availability estimates",
		Long: `Scrapes the venue's what's-on listing and the ticketing vendor's
seat-selection pages, resolving a percent-sold estimate per show, and
writes a normalized JSON array for the front-end.`,
		SilenceUsage: true,
		RunE:         runScrape,
	}

	cmd.Flags().StringVar(&flagOut, "out", "shows.json", "Output JSON file path")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Stdout format: text, json, or ics")
	cmd.Flags().StringVar(&flagConfig, "config", "", "YAML site profile (defaults compiled in)")
	cmd.Flags().StringVar(&flagFilter, "filter", "", `Filter expression, e.g. "pct>=80,title~swan,weekends"`)
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "Listing page limit (0 = profile default)")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Per-event lookup workers (0 = profile default)")
	cmd.Flags().BoolVar(&flagHeadless, "headless", true, "Run the browser headless")
	cmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Skip the browser-backed strategies")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runScrape is the main pipeline: fetch cards, resolve availability,
// dedup, filter, sort, serialize.
func runScrape(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatICS {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json', or 'ics')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	outFilter, err := filter.Parse(flagFilter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger.Info("scrape run starting", logger.Fields{
		"run_id":      runID,
		"listing_url": cfg.ListingURL,
		"max_pages":   cfg.MaxPages,
		"browser":     cfg.UseBrowser,
	})

	store, err := storage.New(flagOut)
	if err != nil {
		return fmt.Errorf("initializing output: %w", err)
	}

	cards, err := scraper.New(cfg).FetchCards(ctx)
	if err != nil {
		return fmt.Errorf("fetching listing: %w", err)
	}

	vendorClient := vendor.New(cfg.VendorAPIBase, cfg.UserAgent, cfg.RatePerSec)

	var session browser.Session
	if cfg.UseBrowser {
		b, err := browser.Start(ctx, browser.Options{
			Headless:    cfg.Headless,
			UserAgent:   cfg.UserAgent,
			Tabs:        cfg.Concurrency,
			PageTimeout: cfg.PageTimeout.Std(),
			RatePerSec:  cfg.RatePerSec,
		})
		if err != nil {
			// Availability degrades to the cheap strategies; the run goes on.
			logger.Warn("browser unavailable, continuing without sniff and seat counting",
				logger.Fields{"error": err.Error()})
		} else {
			defer b.Close()
			session = b
		}
	}

	resolver := availability.BuildCascade(cfg, vendorClient, session)
	events := resolver.ResolveAll(ctx, cards, cfg.Concurrency)

	events = event.Deduplicate(events, cfg.DefaultPct)
	if !outFilter.IsEmpty() {
		events = outFilter.Apply(events)
	}
	event.SortEvents(events)

	if err := store.Write(events); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Info("scrape run complete", logger.Fields{
		"run_id": runID,
		"events": len(events),
		"out":    store.Path(),
	})
	logger.Debug("run metrics", logger.MetricsSnapshot())

	return WriteOutput(os.Stdout, events, format, flagVerbose)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// applyFlags layers explicitly-set flags over the loaded profile.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-pages") && flagMaxPages > 0 {
		cfg.MaxPages = flagMaxPages
	}
	if cmd.Flags().Changed("concurrency") && flagConcurrency > 0 {
		cfg.Concurrency = flagConcurrency
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if flagNoBrowser {
		cfg.UseBrowser = false
	}
}
