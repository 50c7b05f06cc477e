package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/litsort/litsort/internal/catalog"
	"github.com/litsort/litsort/internal/config"
	"github.com/litsort/litsort/internal/logging"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().StringVar(&sourcesDir, "dir", ".", "Directory whose sources.yml to inspect")
}

var sourcesDir string

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show catalog source status",
	Long: `Sources lists each metadata catalog in lookup priority order, whether it
is enabled, and whether its API credential is configured. Credentials come
from the environment or a .env file: ` + config.EnvScopusKey + `,
` + config.EnvSemanticScholarKey + `, ` + config.EnvUnpaywallEmail + `.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

// SourceStatus describes one catalog source.
type SourceStatus struct {
	Name          string `json:"name"`
	Enabled       bool   `json:"enabled"`
	NeedsKey      bool   `json:"needs_key,omitempty"`
	KeyConfigured bool   `json:"key_configured,omitempty"`
}

func runSources(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	log := logging.New(logging.Options{Verbose: verbose, JSON: jsonOutput})

	cfg, err := config.Load(filepath.Join(sourcesDir, config.ConfigFile))
	if err != nil {
		return configErr{err}
	}

	resolver := catalog.NewResolver(cfg.ResolverOptions(), log)

	credentialEnv := map[string]string{
		"semantic_scholar": config.EnvSemanticScholarKey,
		"scopus":           config.EnvScopusKey,
		"unpaywall":        config.EnvUnpaywallEmail,
	}

	var statuses []SourceStatus
	for _, src := range resolver.Sources() {
		status := SourceStatus{Name: src.Name(), Enabled: src.Enabled()}
		if env, ok := credentialEnv[src.Name()]; ok {
			status.NeedsKey = true
			status.KeyConfigured = os.Getenv(env) != ""
		}
		statuses = append(statuses, status)
	}

	if jsonOutput {
		return outputJSON(statuses)
	}

	outputHuman("Catalog sources in lookup priority order:\n")
	for _, s := range statuses {
		state := "disabled"
		if s.Enabled {
			state = "enabled"
		}
		outputHuman("  %-17s %s", s.Name, state)
		if s.NeedsKey && !s.KeyConfigured {
			outputHuman("  (credential not configured)")
		}
		outputHuman("\n")
	}
	return nil
}
