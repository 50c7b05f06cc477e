// Package config handles source configuration and API credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/litsort/litsort/internal/catalog"
	"github.com/litsort/litsort/internal/organize"
)

// ConfigFile is the source-configuration file looked for in the target
// directory.
const ConfigFile = "sources.yml"

// Environment variable names for API credentials, loaded from the process
// environment or a .env file via godotenv at the CLI layer.
const (
	EnvScopusKey          = "SCOPUS_API_KEY"
	EnvSemanticScholarKey = "SEMANTIC_SCHOLAR_API_KEY"
	EnvUnpaywallEmail     = "UNPAYWALL_EMAIL"
	EnvContactEmail       = "LITSORT_CONTACT_EMAIL"
)

// Config holds source toggles and run defaults read from sources.yml.
type Config struct {
	Sources struct {
		OpenAlex        bool `yaml:"openalex"`
		Crossref        bool `yaml:"crossref"`
		DataCite        bool `yaml:"datacite"`
		EuropePMC       bool `yaml:"europepmc"`
		SemanticScholar bool `yaml:"semantic_scholar"`
		Scopus          bool `yaml:"scopus"`
		Unpaywall       bool `yaml:"unpaywall"`
	} `yaml:"sources"`

	// Workers is the pipeline pool width, 0 for the default.
	Workers int `yaml:"workers,omitempty"`

	// CachePath enables the metadata cache when set.
	CachePath string `yaml:"cache_path,omitempty"`
}

// Default returns the configuration used when no sources.yml exists: every
// credential-free source on, key-gated sources on but dormant until their
// credential appears.
func Default() *Config {
	var cfg Config
	cfg.Sources.OpenAlex = true
	cfg.Sources.Crossref = true
	cfg.Sources.DataCite = true
	cfg.Sources.EuropePMC = true
	cfg.Sources.SemanticScholar = true
	cfg.Sources.Scopus = true
	cfg.Sources.Unpaywall = true
	cfg.Workers = organize.DefaultWorkers
	return &cfg
}

// Load reads configuration from path, returning defaults when the file does
// not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = organize.DefaultWorkers
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResolverOptions combines the source toggles with credentials from the
// environment into catalog options.
func (c *Config) ResolverOptions() catalog.Options {
	return catalog.Options{
		OpenAlex:              c.Sources.OpenAlex,
		Crossref:              c.Sources.Crossref,
		DataCite:              c.Sources.DataCite,
		EuropePMC:             c.Sources.EuropePMC,
		SemanticScholar:       c.Sources.SemanticScholar,
		Scopus:                c.Sources.Scopus,
		Unpaywall:             c.Sources.Unpaywall,
		SemanticScholarAPIKey: os.Getenv(EnvSemanticScholarKey),
		ScopusAPIKey:          os.Getenv(EnvScopusKey),
		UnpaywallEmail:        os.Getenv(EnvUnpaywallEmail),
		ContactEmail:          os.Getenv(EnvContactEmail),
	}
}
