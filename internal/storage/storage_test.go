package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carvalth/dmhshows/internal/event"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "shows.json")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start := time.Date(2026, time.March, 13, 19, 30, 0, 0, time.UTC)
	events := []*event.Event{
		event.New("Swan Lake", &start, "Book now", 20),
		event.New("TBA Special", nil, "", 30),
	}

	if err := w.Write(events); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Title != "Swan Lake" || got[0].OverridePct != 20 {
		t.Errorf("round trip lost data: %+v", got[0])
	}
	if got[1].Start != nil {
		t.Errorf("null start should round trip as nil, got %v", got[1].Start)
	}

	// No stray temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestWriteEmptySliceIsArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shows.json")
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(nil); err != nil {
		t.Fatalf("Write(nil) failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty run must serialize as an empty array, got %q", string(data))
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected error for malformed file")
	}
}
