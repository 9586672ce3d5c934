// Package scraper fetches the venue's paginated what's-on listing and
// extracts raw event cards (title, date text, status text, links) via
// layered selector heuristics. Cards carry no availability estimate;
// that is the availability package's job.
package scraper
