package main

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/litsort/litsort/internal/cache"
	"github.com/litsort/litsort/internal/catalog"
	"github.com/litsort/litsort/internal/config"
	"github.com/litsort/litsort/internal/export"
	"github.com/litsort/litsort/internal/logging"
	"github.com/litsort/litsort/internal/organize"
	"github.com/litsort/litsort/internal/pdf"
)

func init() {
	rootCmd.AddCommand(organizeCmd)

	f := organizeCmd.Flags()
	f.BoolVar(&organizeOpts.useOCR, "ocr", false, "Run OCR on PDFs with no extractable text (needs pdftoppm and tesseract)")
	f.BoolVar(&organizeOpts.backups, "backups", false, "Copy originals into backups/ before renaming")
	f.BoolVar(&organizeOpts.references, "references", false, "Collect references and export them after the run")
	f.BoolVar(&organizeOpts.moveProblematic, "move-problematic", false, "Quarantine unidentifiable files into the unnamed directory")
	f.StringVar(&organizeOpts.problematicDir, "problematic-dir", "", "Custom quarantine directory (implies --move-problematic)")
	f.BoolVar(&organizeOpts.prefixReasons, "prefix-reasons", false, "Tag quarantined filenames with the failure reason")
	f.BoolVar(&organizeOpts.byJournal, "by-journal", false, "Categorize copies by journal")
	f.BoolVar(&organizeOpts.byAuthor, "by-author", false, "Categorize copies by first author")
	f.BoolVar(&organizeOpts.byYear, "by-year", false, "Categorize copies by year")
	f.BoolVar(&organizeOpts.bySubject, "by-subject", false, "Categorize copies by subject")
	f.IntVar(&organizeOpts.workers, "workers", 0, "Worker pool width (default from sources.yml, 4 otherwise)")
	f.StringVar(&organizeOpts.cachePath, "cache", "", "SQLite metadata cache path (overrides sources.yml)")
}

var organizeOpts struct {
	useOCR          bool
	backups         bool
	references      bool
	moveProblematic bool
	problematicDir  string
	prefixReasons   bool
	byJournal       bool
	byAuthor        bool
	byYear          bool
	bySubject       bool
	workers         int
	cachePath       string
}

var organizeCmd = &cobra.Command{
	Use:   "organize [directory]",
	Short: "Rename and categorize the PDFs in a directory",
	Long: `Organize processes every PDF directly inside the target directory
(current directory when omitted). Identified files move into "Named Article"
under a "(Author, Year) - Title" filename; problem files are counted and,
with --move-problematic, quarantined into "Unnamed Article".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrganize,
}

// OrganizeSummary is the machine-readable run summary.
type OrganizeSummary struct {
	Processed   int                       `json:"processed"`
	Renamed     int                       `json:"renamed"`
	Problematic int                       `json:"problematic"`
	References  int                       `json:"references,omitempty"`
	Categories  map[string]map[string]int `json:"categories,omitempty"`
	NothingToDo bool                      `json:"nothing_to_do,omitempty"`
}

func runOrganize(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	log := logging.New(logging.Options{Verbose: verbose, JSON: jsonOutput})

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFile))
	if err != nil {
		return configErr{err}
	}

	resolver := catalog.NewResolver(cfg.ResolverOptions(), log)

	cachePath := organizeOpts.cachePath
	if cachePath == "" {
		cachePath = cfg.CachePath
	}
	if cachePath != "" {
		db, err := cache.Open(cachePath)
		if err != nil {
			return configErr{err}
		}
		defer db.Close()
		resolver.SetCache(db)
	}

	var secondary pdf.TextExtractor
	if organizeOpts.useOCR {
		ocr, err := pdf.NewOCRExtractor()
		if err != nil {
			log.Warn().Err(err).Msg("continuing without ocr")
		} else {
			secondary = ocr
		}
	}

	workers := organizeOpts.workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	p := organize.New(organize.Options{
		Directory:         dir,
		CreateBackups:     organizeOpts.backups,
		CollectReferences: organizeOpts.references,
		MoveProblematic:   organizeOpts.moveProblematic || organizeOpts.problematicDir != "",
		ProblematicDir:    organizeOpts.problematicDir,
		PrefixReasons:     organizeOpts.prefixReasons,
		ByJournal:         organizeOpts.byJournal,
		ByAuthor:          organizeOpts.byAuthor,
		ByYear:            organizeOpts.byYear,
		BySubject:         organizeOpts.bySubject,
		Workers:           workers,
	}, organize.PDFExtractor{Secondary: secondary}, resolver, log)

	if !jsonOutput {
		p.OnFileDone(func(e organize.Event) {
			mark := "ok"
			if !e.Success {
				mark = "problem"
			}
			outputHuman("  [%s] %s\n", mark, e.Filename)
		})
	}

	// Interrupt stops the run between files; the file in flight finishes.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if organizeOpts.references {
		if err := export.WriteAll(dir, result.References, log); err != nil {
			log.Warn().Err(err).Msg("some reference exports failed")
		}
	}

	summary := OrganizeSummary{
		Processed:   result.Stats.Processed,
		Renamed:     result.Stats.Renamed,
		Problematic: result.Stats.Problematic,
		References:  len(result.References),
		Categories:  result.Stats.CategoryCounts,
		NothingToDo: result.NothingToDo,
	}
	if jsonOutput {
		return outputJSON(summary)
	}

	if summary.NothingToDo {
		outputHuman("No PDF files found in %s, nothing to do.\n", dir)
		return nil
	}
	outputHuman("Processed %d files: %d renamed, %d problematic.\n",
		summary.Processed, summary.Renamed, summary.Problematic)
	if organizeOpts.references {
		outputHuman("Collected %d references.\n", summary.References)
	}
	return nil
}
