// Package sanitize produces filesystem-safe filenames.
package sanitize

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFilenameLen is the longest filename Filename will return. It stays
// under the 260-character Windows path limit with room for a directory prefix.
const MaxFilenameLen = 240

var invalidChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// Filename replaces filesystem-invalid characters with underscores, collapses
// runs of whitespace to a single space, and truncates the stem so the result
// fits in MaxFilenameLen while preserving the extension. It never fails; an
// empty input yields an empty string, which callers must handle.
func Filename(name string) string {
	name = invalidChars.Replace(name)
	name = strings.Join(strings.Fields(name), " ")

	if len(name) > MaxFilenameLen {
		ext := filepath.Ext(name)
		if len(ext) >= MaxFilenameLen {
			// Degenerate "extension" longer than the limit; treat as stem.
			ext = ""
		}
		stem := strings.TrimSuffix(name, ext)
		limit := MaxFilenameLen - len(ext)
		// Trim whole runes so the cut never leaves invalid UTF-8.
		for len(stem) > limit {
			_, size := utf8.DecodeLastRuneInString(stem)
			stem = stem[:len(stem)-size]
		}
		name = stem + ext
	}

	return name
}
