// Package cli implements the command-line interface for dmhshows.
//
// The cli package provides the Cobra-based CLI that drives the full
// pipeline: scrape the listing, resolve a percent-sold estimate per show
// through the availability cascade, deduplicate and filter, then write
// the normalized JSON file and render text, JSON, or iCalendar output.
package cli
