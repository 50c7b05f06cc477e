package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litsort/litsort/internal/organize"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Sources.OpenAlex || !cfg.Sources.Crossref || !cfg.Sources.Unpaywall {
		t.Errorf("defaults should enable all source toggles: %+v", cfg.Sources)
	}
	if cfg.Workers != organize.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, organize.DefaultWorkers)
	}
}

func TestLoadSavedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)

	cfg := Default()
	cfg.Sources.Scopus = false
	cfg.Workers = 8
	cfg.CachePath = "cache.db"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Sources.Scopus {
		t.Error("Scopus toggle not persisted")
	}
	if got.Workers != 8 {
		t.Errorf("Workers = %d, want 8", got.Workers)
	}
	if got.CachePath != "cache.db" {
		t.Errorf("CachePath = %q", got.CachePath)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("sources: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded on malformed yaml")
	}
}

func TestResolverOptions_ReadsEnvCredentials(t *testing.T) {
	t.Setenv(EnvScopusKey, "scopus-key")
	t.Setenv(EnvUnpaywallEmail, "me@example.org")

	opts := Default().ResolverOptions()
	if opts.ScopusAPIKey != "scopus-key" {
		t.Errorf("ScopusAPIKey = %q", opts.ScopusAPIKey)
	}
	if opts.UnpaywallEmail != "me@example.org" {
		t.Errorf("UnpaywallEmail = %q", opts.UnpaywallEmail)
	}
	if !opts.OpenAlex || !opts.Scopus {
		t.Errorf("toggles not carried over: %+v", opts)
	}
}
