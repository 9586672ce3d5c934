package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default profile should validate: %v", err)
	}
	if cfg.DefaultPct != 30 {
		t.Errorf("expected default percentage 30, got %d", cfg.DefaultPct)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("expected concurrency 3, got %d", cfg.Concurrency)
	}
}

func TestLoadOverlaysProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	profile := `
listing_url: https://example.test/whats-on/
max_pages: 2
page_timeout: 45s
status_table:
  "waiting list": 95
`
	if err := os.WriteFile(path, []byte(profile), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListingURL != "https://example.test/whats-on/" {
		t.Errorf("listing_url not overridden: %s", cfg.ListingURL)
	}
	if cfg.MaxPages != 2 {
		t.Errorf("max_pages not overridden: %d", cfg.MaxPages)
	}
	if cfg.StatusTable["waiting list"] != 95 {
		t.Errorf("status_table not loaded: %v", cfg.StatusTable)
	}
	if cfg.PageTimeout.Std() != 45*time.Second {
		t.Errorf("page_timeout not parsed: %v", cfg.PageTimeout.Std())
	}
	// Untouched defaults survive.
	if cfg.Selectors.Card == "" {
		t.Error("default selectors should survive an overlay")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("max_pages: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for max_pages: 0")
	}

	path2 := filepath.Join(dir, "bad2.yaml")
	if err := os.WriteFile(path2, []byte("status_table:\n  full: 140\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path2); err == nil {
		t.Error("expected validation error for out-of-range status_table entry")
	}

	path3 := filepath.Join(dir, "bad3.yaml")
	if err := os.WriteFile(path3, []byte("page_timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path3); err == nil {
		t.Error("expected a parse error for an invalid page_timeout")
	}
}

func TestEnvToggles(t *testing.T) {
	t.Setenv(EnvHeadless, "false")
	t.Setenv(EnvMaxPages, "4")

	cfg := Default()
	if cfg.Headless {
		t.Error("DMH_HEADLESS=false should disable headless")
	}
	if cfg.MaxPages != 4 {
		t.Errorf("DMH_MAX_PAGES=4 should set max pages, got %d", cfg.MaxPages)
	}
}
