package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/litsort/litsort/internal/reference"
	"github.com/litsort/litsort/internal/sanitize"
)

const (
	// titleMaxLen caps the title portion of a generated filename.
	titleMaxLen = 80

	// stemMaxLen caps the whole generated filename before the extension.
	stemMaxLen = 150
)

// targetFilename builds the citation-based filename for renamed files, in
// the form "(Family, Year) - Title" with the original extension appended.
func targetFilename(m *reference.Metadata, ext string) string {
	stem := sanitize.Filename(reference.Citation(m) + " - " + truncateRunes(m.Title, titleMaxLen))
	return truncateRunes(stem, stemMaxLen) + ext
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ensureDir creates dir if absent. Concurrent callers creating the same
// directory must both succeed.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// uniquePath returns a path under dir for name that does not collide with an
// existing file, appending _1, _2, ... to the stem until one is free.
func uniquePath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// copyFile copies src to dst, overwriting dst if present.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

// quarantine moves src into dir by copy-then-delete: the original is removed
// only after the copy verifiably succeeded. prefix, when non-empty, tags the
// quarantined name with the failure reason.
func quarantine(src, dir, prefix string) error {
	if err := ensureDir(dir); err != nil {
		return err
	}

	dst := uniquePath(dir, prefix+filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing original %s: %w", src, err)
	}
	return nil
}
