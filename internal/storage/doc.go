// Package storage writes the normalized event array to the JSON output
// file consumed by the front-end, wholesale and atomically.
package storage
