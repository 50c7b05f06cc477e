// Package export writes collected references to CSV, plain-text, and BibTeX
// files after a run.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/litsort/litsort/internal/organize"
)

// Export filenames written into each target directory.
const (
	CSVName    = "references.csv"
	TextName   = "references.txt"
	BibTeXName = "references.bib"
)

// WriteAll writes the run-root exports plus one export per category value
// the entries were filed under. Nothing is written when entries is empty.
// Individual export failures are logged and do not stop the remaining ones.
func WriteAll(runRoot string, entries []organize.Entry, log zerolog.Logger) error {
	if len(entries) == 0 {
		return nil
	}

	var errs []error
	if err := WriteDir(runRoot, entries); err != nil {
		log.Warn().Err(err).Str("dir", runRoot).Msg("reference export failed")
		errs = append(errs, err)
	}
	if err := writeBibTeX(filepath.Join(runRoot, BibTeXName), entries); err != nil {
		log.Warn().Err(err).Msg("bibtex export failed")
		errs = append(errs, err)
	}

	for axis, byValue := range groupByCategory(entries) {
		for value, scoped := range byValue {
			dir := filepath.Join(runRoot, organize.CategorizedDirName, "by_"+axis, value)
			if err := WriteDir(dir, scoped); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("category reference export failed")
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WriteDir writes the CSV and plain-text exports into dir. A failure in one
// format does not prevent writing the other.
func WriteDir(dir string, entries []organize.Entry) error {
	return errors.Join(
		writeCSV(filepath.Join(dir, CSVName), entries),
		writeText(filepath.Join(dir, TextName), entries),
	)
}

// groupByCategory indexes entries by axis and category value.
func groupByCategory(entries []organize.Entry) map[string]map[string][]organize.Entry {
	grouped := make(map[string]map[string][]organize.Entry)
	for _, e := range entries {
		for axis, value := range e.Categories {
			if grouped[axis] == nil {
				grouped[axis] = make(map[string][]organize.Entry)
			}
			grouped[axis][value] = append(grouped[axis][value], e)
		}
	}
	return grouped
}

func writeCSV(path string, entries []organize.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"doi", "author", "filename", "reference"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write([]string{e.DOI, e.AuthorFamily, e.Filename, e.Reference}); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", e.DOI, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

func writeText(path string, entries []organize.Entry) error {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "DOI: %s\n", e.DOI)
		fmt.Fprintf(&b, "Author: %s\n", e.AuthorFamily)
		fmt.Fprintf(&b, "File: %s\n", e.Filename)
		fmt.Fprintf(&b, "Reference: %s\n\n", e.Reference)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
