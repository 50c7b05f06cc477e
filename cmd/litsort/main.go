// Package main provides the litsort CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent output flags.
var (
	jsonOutput bool
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "litsort",
	Short: "Organize academic PDFs by DOI metadata",
	Long: `litsort organizes a directory of academic PDFs.

For each file it extracts a DOI, resolves metadata from catalog APIs
(OpenAlex, Crossref, DataCite, Europe PMC, Semantic Scholar, Scopus,
Unpaywall), renames the file to its APA7 citation, and optionally files
copies under journal/author/year/subject category folders. Files it cannot
identify are quarantined rather than touched destructively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON output and logs instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}
