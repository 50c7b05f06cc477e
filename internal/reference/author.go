package reference

import (
	"strings"
	"unicode"
)

// Author represents a paper author. Adapters populate Family/Given when the
// source supplies structured names; string-only sources go through
// ParseAuthor so downstream code only ever sees this one shape.
type Author struct {
	Family  string `json:"family"`
	Given   string `json:"given,omitempty"`
	Display string `json:"display,omitempty"` // original display string, if any
}

// ParseAuthor converts a bare name string into an Author. A comma means
// "Family, Given ..."; otherwise the last whitespace-separated token is the
// family name and everything before it is the given name.
func ParseAuthor(name string) Author {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}
	}

	if i := strings.Index(name, ","); i >= 0 {
		return Author{
			Family:  strings.TrimSpace(name[:i]),
			Given:   strings.TrimSpace(name[i+1:]),
			Display: name,
		}
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return Author{Family: parts[0], Display: name}
	}
	return Author{
		Family:  parts[len(parts)-1],
		Given:   strings.Join(parts[:len(parts)-1], " "),
		Display: name,
	}
}

// FamilyName returns the author's family name, falling back to parsing the
// display string when the structured field is empty.
func (a Author) FamilyName() string {
	if a.Family != "" {
		return a.Family
	}
	if a.Display != "" {
		return ParseAuthor(a.Display).Family
	}
	return ""
}

// Format renders the author APA7-style: "Family, G. M." with one upper-cased
// initial per given-name token. Authors without a given name render as the
// bare family name.
func (a Author) Format() string {
	family := a.FamilyName()
	if family == "" {
		return ""
	}

	given := a.Given
	if given == "" && a.Display != "" {
		given = ParseAuthor(a.Display).Given
	}
	if given == "" {
		return family
	}

	var initials []string
	for _, tok := range strings.Fields(given) {
		r := []rune(tok)
		initials = append(initials, string(unicode.ToUpper(r[0]))+".")
	}
	return family + ", " + strings.Join(initials, " ")
}
