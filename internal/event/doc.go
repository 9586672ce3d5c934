// Package event defines the normalized Event model produced by the
// pipeline, plus the date/time normalization and (title, start)
// deduplication that turn inconsistent listing cards into canonical
// records.
package event
