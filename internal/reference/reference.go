// Package reference defines the normalized bibliographic metadata model and
// APA7 formatting used throughout litsort.
package reference

// Metadata is the normalized shape every catalog source adapter produces.
// Absent fields are empty strings or empty slices, never meaningfully nil;
// downstream formatting handles missing data without errors.
type Metadata struct {
	DOI      string   `json:"doi"`
	Title    string   `json:"title"`
	Authors  []Author `json:"authors"`
	Year     string   `json:"year"` // 4-digit string, "" if unknown
	Journal  string   `json:"journal"`
	Volume   string   `json:"volume"`
	Issue    string   `json:"issue"`
	Pages    string   `json:"pages"`
	Subjects []string `json:"subjects"` // topical tags, first element is the category
	Source   string   `json:"source"`   // which API produced this record
}

// Sufficient reports whether the metadata clears the minimum bar for
// renaming: a title plus at least one of author or year.
func (m *Metadata) Sufficient() bool {
	if m == nil || m.Title == "" {
		return false
	}
	return len(m.Authors) > 0 || m.Year != ""
}

// Category returns the single category value used for folder categorization:
// the first subject tag, or "" when no subjects are known.
func (m *Metadata) Category() string {
	if m == nil || len(m.Subjects) == 0 {
		return ""
	}
	return m.Subjects[0]
}

// FirstAuthorFamily returns the family name of the citation-significant
// first author, or "" when there are no authors.
func (m *Metadata) FirstAuthorFamily() string {
	if m == nil || len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0].FamilyName()
}
