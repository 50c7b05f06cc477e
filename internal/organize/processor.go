// Package organize runs the per-file pipeline: DOI extraction, metadata
// resolution, renaming, categorization, and quarantine of problem files.
package organize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/litsort/litsort/internal/pdf"
	"github.com/litsort/litsort/internal/reference"
	"github.com/litsort/litsort/internal/sanitize"
)

// Directory names created under the target directory.
const (
	NamedDirName       = "Named Article"
	UnnamedDirName     = "Unnamed Article"
	CategorizedDirName = "Categorized Article"
	BackupDirName      = "backups"
)

// DefaultWorkers is the pipeline's worker pool width.
const DefaultWorkers = 4

// uncategorizedValue receives files whose metadata lacks a value for an
// enabled categorization axis.
const uncategorizedValue = "uncategorized"

// DOIExtractor extracts a DOI from a PDF file, "" when none is detectable.
type DOIExtractor interface {
	ExtractDOI(path string) (string, error)
}

// MetadataResolver resolves a DOI to metadata, nil when every source is
// exhausted.
type MetadataResolver interface {
	Resolve(ctx context.Context, doi string) *reference.Metadata
}

// PDFExtractor is the production DOIExtractor. Secondary, when non-nil, is
// tried on documents with no extractable text.
type PDFExtractor struct {
	Secondary pdf.TextExtractor
}

func (e PDFExtractor) ExtractDOI(path string) (string, error) {
	return pdf.ExtractDOI(path, e.Secondary)
}

// Options configures a pipeline run.
type Options struct {
	// Directory holds the PDFs to organize; only direct children are read.
	Directory string

	// CreateBackups copies each file into backups/ before renaming it.
	CreateBackups bool

	// CollectReferences gathers an APA7 reference per renamed file for
	// export after the run.
	CollectReferences bool

	// MoveProblematic quarantines unidentifiable files into the unnamed
	// directory. When false they stay where they are, still counted as
	// problematic.
	MoveProblematic bool

	// ProblematicDir overrides the quarantine location. Empty means
	// "Unnamed Article" under Directory.
	ProblematicDir string

	// PrefixReasons tags quarantined filenames with the failure reason.
	PrefixReasons bool

	// Categorization axes. Each enabled axis copies renamed files into
	// by_<axis>/<value>/ under the categorized directory.
	ByJournal bool
	ByAuthor  bool
	ByYear    bool
	BySubject bool

	// Workers is the pool width; 0 means DefaultWorkers.
	Workers int
}

// Event reports one file reaching a terminal state, for progress displays.
type Event struct {
	Filename string
	Success  bool
}

// Entry is one collected reference, written out by the exporter.
type Entry struct {
	DOI          string
	AuthorFamily string
	Filename     string
	Reference    string

	// Meta is the resolved metadata behind the reference string, for
	// structured export formats.
	Meta *reference.Metadata

	// Categories maps axis -> value for the axes this file was filed under.
	Categories map[string]string
}

// RunResult is the summary of a completed run.
type RunResult struct {
	Stats      Stats
	References []Entry

	// NothingToDo is set when the target directory held no PDF files.
	NothingToDo bool
}

// fileResult is the terminal state of one file, passed from a worker to the
// collection loop.
type fileResult struct {
	path       string
	finalName  string
	outcome    Outcome
	err        error
	meta       *reference.Metadata
	categories map[string]string
	started    bool
}

// Processor runs the pipeline over one directory.
type Processor struct {
	opts      Options
	extractor DOIExtractor
	resolver  MetadataResolver
	log       zerolog.Logger

	onFileDone func(Event)
	stop       atomic.Bool
}

// New creates a Processor.
func New(opts Options, extractor DOIExtractor, resolver MetadataResolver, log zerolog.Logger) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ProblematicDir == "" {
		opts.ProblematicDir = filepath.Join(opts.Directory, UnnamedDirName)
	}
	return &Processor{opts: opts, extractor: extractor, resolver: resolver, log: log}
}

// OnFileDone registers a callback invoked serially as each file reaches a
// terminal state.
func (p *Processor) OnFileDone(fn func(Event)) {
	p.onFileDone = fn
}

// Stop requests that no new file begin processing. Files already in flight
// run to completion.
func (p *Processor) Stop() {
	p.stop.Store(true)
}

// Run processes every PDF in the target directory through the worker pool
// and returns the aggregated result. Counters reflect exactly the files that
// actually started.
func (p *Processor) Run(ctx context.Context) (*RunResult, error) {
	files, err := p.listPDFs()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.log.Info().Str("dir", p.opts.Directory).Msg("no pdf files found")
		return &RunResult{Stats: newStats(), NothingToDo: true}, nil
	}

	if err := ensureDir(filepath.Join(p.opts.Directory, NamedDirName)); err != nil {
		return nil, err
	}

	jobs := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if p.stop.Load() || ctx.Err() != nil {
					results <- fileResult{path: path, started: false}
					continue
				}
				results <- p.processFile(ctx, path)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Single collection point: counters, references, and events are all
	// handled here, never inside workers.
	result := &RunResult{Stats: newStats()}
	for res := range results {
		if !res.started {
			continue
		}
		result.Stats.record(res)

		if res.outcome.Success() && p.opts.CollectReferences {
			result.References = append(result.References, Entry{
				DOI:          res.meta.DOI,
				AuthorFamily: res.meta.FirstAuthorFamily(),
				Filename:     res.finalName,
				Reference:    reference.Reference(res.meta),
				Meta:         res.meta,
				Categories:   res.categories,
			})
		}

		if p.onFileDone != nil {
			p.onFileDone(Event{
				Filename: filepath.Base(res.path),
				Success:  res.outcome.Success(),
			})
		}
	}

	p.log.Info().
		Int("processed", result.Stats.Processed).
		Int("renamed", result.Stats.Renamed).
		Int("problematic", result.Stats.Problematic).
		Msg("run complete")
	return result, nil
}

// listPDFs returns the direct-child PDF paths of the target directory.
func (p *Processor) listPDFs() ([]string, error) {
	entries, err := os.ReadDir(p.opts.Directory)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(p.opts.Directory, e.Name()))
		}
	}
	return files, nil
}

// processFile takes one file to its terminal state. A panic anywhere in here
// becomes OutcomeUnexpected so the pool keeps going.
func (p *Processor) processFile(ctx context.Context, path string) (res fileResult) {
	res = fileResult{path: path, started: true}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("file", path).Interface("panic", r).Msg("unexpected failure")
			res.outcome = OutcomeUnexpected
			p.quarantineIfEnabled(path, OutcomeUnexpected)
		}
	}()

	log := p.log.With().Str("file", filepath.Base(path)).Logger()

	doi, err := p.extractor.ExtractDOI(path)
	if err != nil {
		res.err = err
		res.outcome = OutcomeReadError
		if errors.Is(err, pdf.ErrEncrypted) {
			res.outcome = OutcomeEncryptedError
		}
		log.Warn().Err(err).Str("reason", res.outcome.Tag()).Msg("cannot examine pdf")
		p.quarantineIfEnabled(path, res.outcome)
		return res
	}
	if doi == "" {
		res.outcome = OutcomeMissingDOI
		log.Info().Str("reason", res.outcome.Tag()).Msg("no doi detected")
		p.quarantineIfEnabled(path, res.outcome)
		return res
	}

	meta := p.resolver.Resolve(ctx, doi)
	if meta == nil || !meta.Sufficient() {
		res.outcome = OutcomeInsufficientMetadata
		log.Info().Str("doi", doi).Str("reason", res.outcome.Tag()).Msg("metadata insufficient")
		p.quarantineIfEnabled(path, res.outcome)
		return res
	}
	res.meta = meta

	if p.opts.CreateBackups {
		if err := p.backup(path); err != nil {
			log.Warn().Err(err).Msg("backup failed")
			res.err = err
			res.outcome = OutcomeFilesystemError
			p.quarantineIfEnabled(path, res.outcome)
			return res
		}
	}

	dest, err := p.moveToNamed(path, meta)
	if err != nil {
		log.Warn().Err(err).Msg("rename failed")
		res.err = err
		res.outcome = OutcomeFilesystemError
		p.quarantineIfEnabled(path, res.outcome)
		return res
	}
	res.finalName = filepath.Base(dest)
	res.outcome = OutcomeRenamed
	log.Info().Str("doi", doi).Str("renamed_to", res.finalName).Msg("file renamed")

	res.categories = p.categorize(dest, meta, log)
	return res
}

// backup copies the pre-move original into backups/, overwriting any earlier
// backup of the same name.
func (p *Processor) backup(path string) error {
	dir := filepath.Join(p.opts.Directory, BackupDirName)
	if err := ensureDir(dir); err != nil {
		return err
	}
	return copyFile(path, filepath.Join(dir, filepath.Base(path)))
}

// moveToNamed moves path into the named-article directory under its
// citation-based filename, suffixing _1, _2, ... on collision.
func (p *Processor) moveToNamed(path string, meta *reference.Metadata) (string, error) {
	dir := filepath.Join(p.opts.Directory, NamedDirName)
	name := targetFilename(meta, filepath.Ext(path))
	dest := uniquePath(dir, name)

	if err := os.Rename(path, dest); err != nil {
		// Rename fails across filesystems; fall back to copy then delete.
		if err := copyFile(path, dest); err != nil {
			return "", err
		}
		if err := os.Remove(path); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// categorize copies the renamed file under each enabled axis. One axis
// failing must not block the others; only successful copies are returned.
func (p *Processor) categorize(renamed string, meta *reference.Metadata, log zerolog.Logger) map[string]string {
	axes := []struct {
		name    string
		enabled bool
		value   string
	}{
		{AxisJournal, p.opts.ByJournal, meta.Journal},
		{AxisAuthor, p.opts.ByAuthor, meta.FirstAuthorFamily()},
		{AxisYear, p.opts.ByYear, meta.Year},
		{AxisSubject, p.opts.BySubject, meta.Category()},
	}

	var done map[string]string
	for _, axis := range axes {
		if !axis.enabled {
			continue
		}
		value := sanitize.Filename(axis.value)
		if value == "" {
			value = uncategorizedValue
		}

		dir := filepath.Join(p.opts.Directory, CategorizedDirName, "by_"+axis.name, value)
		if err := ensureDir(dir); err != nil {
			log.Warn().Err(err).Str("axis", axis.name).Msg("categorize mkdir failed")
			continue
		}
		if err := copyFile(renamed, filepath.Join(dir, filepath.Base(renamed))); err != nil {
			log.Warn().Err(err).Str("axis", axis.name).Msg("categorize copy failed")
			continue
		}

		if done == nil {
			done = make(map[string]string)
		}
		done[axis.name] = value
	}
	return done
}

// quarantineIfEnabled moves a problem file aside. Quarantine is best-effort:
// a failed copy leaves the original in place.
func (p *Processor) quarantineIfEnabled(path string, outcome Outcome) {
	if !p.opts.MoveProblematic {
		return
	}

	prefix := ""
	if p.opts.PrefixReasons {
		prefix = outcome.quarantinePrefix()
	}
	if err := quarantine(path, p.opts.ProblematicDir, prefix); err != nil {
		p.log.Warn().Err(err).Str("file", path).Msg("quarantine failed, original left in place")
	}
}
