package pdf

import (
	"regexp"
	"strings"
)

// doiPatterns is the ordered list of DOI shapes searched for in page text.
// Order is priority: an earlier pattern's match wins even if a later pattern
// would match earlier in the text. The capture group is always the bare
// 10.xxxx/... DOI.
var doiPatterns = []*regexp.Regexp{
	// doi.org URL (with or without scheme)
	regexp.MustCompile(`(?i)doi\.org/+(10\.[0-9]{4,9}(?:\.[0-9]+)*/[a-zA-Z0-9._()\-+/]+)`),
	// "DOI:" / "doi:" prefixed
	regexp.MustCompile(`(?i)doi:\s*(10\.[0-9]{4,9}(?:\.[0-9]+)*/[a-zA-Z0-9._()\-+/]+)`),
	// bare DOI bounded by a non-alphanumeric
	regexp.MustCompile(`(?:^|[^a-zA-Z0-9])(10\.[0-9]{4,9}(?:\.[0-9]+)*/[a-zA-Z0-9._()\-+/]+)`),
	// full https://dx.doi.org form
	regexp.MustCompile(`(?i)https?://(?:dx\.)?doi\.org/+(10\.[0-9]{4,9}(?:\.[0-9]+)*/[a-zA-Z0-9._()\-+/]+)`),
}

// FindDOI searches text with each DOI pattern in priority order and returns
// the first pattern's first match, cleaned of trailing punctuation. Returns
// "" when no pattern matches.
func FindDOI(text string) string {
	for _, pat := range doiPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		doi := strings.TrimRight(m[1], ".,;:)")
		if validDOI(doi) {
			return doi
		}
	}
	return ""
}

// validDOI performs basic shape validation: "10." prefix and a non-empty
// suffix after the slash.
func validDOI(doi string) bool {
	if len(doi) < 7 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}
