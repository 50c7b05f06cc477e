package reference

import "strings"

// Values used when metadata cannot supply a field. APA7 uses "n.d." (no
// date) for unknown years.
const (
	UnknownAuthor = "Unknown"
	UnknownTitle  = "Unknown title"
	NoDate        = "n.d."
)

// Citation renders the in-text citation "(Family, Year)". Missing authors
// become "Unknown"; missing or zero years become "n.d.".
func Citation(m *Metadata) string {
	family := ""
	if m != nil {
		family = m.FirstAuthorFamily()
	}
	if family == "" {
		family = UnknownAuthor
	}
	return "(" + family + ", " + yearOrNoDate(m) + ")"
}

// Reference renders the full APA7 reference string:
//
//	Authors (Year). Title. Journal, Volume(Issue), Pages. https://doi.org/DOI
//
// Every segment after the title is optional and omitted when the metadata
// lacks it. Malformed input degrades to Unknown/n.d. rather than failing.
func Reference(m *Metadata) string {
	if m == nil {
		return UnknownAuthor + ". (" + NoDate + "). " + UnknownTitle + "."
	}

	title := m.Title
	if title == "" {
		title = UnknownTitle
	}

	var b strings.Builder
	b.WriteString(AuthorList(m.Authors))
	b.WriteString(" (")
	b.WriteString(yearOrNoDate(m))
	b.WriteString("). ")
	b.WriteString(title)
	b.WriteString(".")

	if m.Journal != "" {
		b.WriteString(" ")
		b.WriteString(m.Journal)
		if m.Volume != "" {
			b.WriteString(", ")
			b.WriteString(m.Volume)
			if m.Issue != "" {
				b.WriteString("(")
				b.WriteString(m.Issue)
				b.WriteString(")")
			}
		}
		if m.Pages != "" {
			b.WriteString(", ")
			b.WriteString(m.Pages)
		}
	}

	if m.DOI != "" {
		if m.Journal != "" {
			b.WriteString(".")
		}
		b.WriteString(" https://doi.org/")
		b.WriteString(m.DOI)
	}

	return b.String()
}

// AuthorList joins formatted author names per APA7: a single author stands
// alone, 2-7 authors are comma-joined with an ampersand before the last, and
// 8 or more list the first six, a literal "...", then the final author.
func AuthorList(authors []Author) string {
	var names []string
	for _, a := range authors {
		if n := a.Format(); n != "" {
			names = append(names, n)
		}
	}

	switch {
	case len(names) == 0:
		return UnknownAuthor
	case len(names) == 1:
		return names[0]
	case len(names) < 8:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	default:
		truncated := append(names[:6:6], "...", names[len(names)-1])
		return strings.Join(truncated, ", ")
	}
}

func yearOrNoDate(m *Metadata) string {
	if m == nil || m.Year == "" || m.Year == "0000" {
		return NoDate
	}
	return m.Year
}
