package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/litsort/litsort/internal/organize"
	"github.com/litsort/litsort/internal/reference"
)

// ToBibTeX converts resolved metadata to a BibTeX entry.
func ToBibTeX(m *reference.Metadata) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@article{%s,\n", citationKey(m)))
	if len(m.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(m.Authors)))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(m.Title)))
	if m.Journal != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(m.Journal)))
	}
	if m.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", m.Year))
	}
	if m.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", m.Volume))
	}
	if m.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", m.Issue))
	}
	if m.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", m.Pages))
	}
	if m.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", m.DOI))
	}
	b.WriteString("}\n")

	return b.String()
}

// writeBibTeX writes one BibTeX entry per collected reference.
func writeBibTeX(path string, entries []organize.Entry) error {
	var parts []string
	for _, e := range entries {
		if e.Meta == nil {
			continue
		}
		parts = append(parts, ToBibTeX(e.Meta))
	}
	if len(parts) == 0 {
		return nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(parts, "\n")), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// citationKey builds a "family2020"-style key, falling back to the DOI.
func citationKey(m *reference.Metadata) string {
	family := strings.ToLower(m.FirstAuthorFamily())
	key := keepAlnum(family) + keepAlnum(m.Year)
	if key == "" {
		key = keepAlnum(m.DOI)
	}
	if key == "" {
		key = "unknown"
	}
	return key
}

func keepAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.Given != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.FamilyName(), a.Given))
		} else {
			formatted = append(formatted, a.FamilyName())
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
