package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carvalth/dmhshows/internal/event"
)

// Writer persists the normalized event array as a single JSON document.
// The file is rebuilt wholesale on every run; there is no incremental or
// cross-run state.
type Writer struct {
	path string
}

// New creates a Writer for the given output path, expanding a leading ~/
// and creating parent directories.
func New(path string) (*Writer, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	return &Writer{path: path}, nil
}

// Path returns the resolved output path.
func (w *Writer) Path() string {
	return w.path
}

// Write serializes events and replaces the output file atomically, so a
// front-end polling the file never observes a partial array.
func (w *Writer) Write(events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	data = append(data, '\n')

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing output file: %w", err)
	}
	return nil
}

// Read loads a previously written event array. Used by the announce
// command, which consumes the scraper's output file.
func Read(path string) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}
	return events, nil
}
