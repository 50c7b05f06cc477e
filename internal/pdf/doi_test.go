package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI_Shapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"doi.org url", "available at https://doi.org/10.1038/s41586-020-1234-5 online", "10.1038/s41586-020-1234-5"},
		{"dx.doi.org url", "see http://dx.doi.org/10.1000/xyz123.", "10.1000/xyz123"},
		{"DOI prefix", "DOI: 10.1016/j.cell.2020.01.001", "10.1016/j.cell.2020.01.001"},
		{"lowercase doi prefix", "doi:10.1101/2020.03.01.971234", "10.1101/2020.03.01.971234"},
		{"bare doi", "Cite as 10.1093/bioinformatics/btaa123 in references", "10.1093/bioinformatics/btaa123"},
		{"trailing punctuation trimmed", "(doi: 10.1234/abc.def).", "10.1234/abc.def"},
		{"no doi", "this text mentions nothing identifiable", ""},
		{"registrant too short", "10.12/abc is not a DOI", ""},
	}
	for _, tt := range tests {
		if got := FindDOI(tt.text); got != tt.want {
			t.Errorf("%s: FindDOI() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFindDOI_PatternOrderIsPriority(t *testing.T) {
	// A bare DOI appears before a doi.org URL in the text; the URL pattern
	// is higher priority and must win anyway.
	text := "first 10.1111/first then https://doi.org/10.2222/second"
	if got := FindDOI(text); got != "10.2222/second" {
		t.Errorf("FindDOI() = %q, want the doi.org match %q", got, "10.2222/second")
	}
}

func TestExtractDOI_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractDOI(path, nil)
	if !errors.Is(err, ErrRead) {
		t.Errorf("ExtractDOI(junk) error = %v, want ErrRead", err)
	}
}

func TestExtractDOI_MissingFile(t *testing.T) {
	_, err := ExtractDOI(filepath.Join(t.TempDir(), "nope.pdf"), nil)
	if !errors.Is(err, ErrRead) {
		t.Errorf("ExtractDOI(missing) error = %v, want ErrRead", err)
	}
}

func TestClassifyOpenError(t *testing.T) {
	if err := classifyOpenError(errors.New("file is encrypted")); !errors.Is(err, ErrEncrypted) {
		t.Errorf("encrypted error classified as %v", err)
	}
	if err := classifyOpenError(errors.New("invalid password")); !errors.Is(err, ErrEncrypted) {
		t.Errorf("password error classified as %v", err)
	}
	if err := classifyOpenError(errors.New("malformed xref table")); !errors.Is(err, ErrRead) {
		t.Errorf("parse error classified as %v", err)
	}
}

func TestValidDOI(t *testing.T) {
	valid := []string{"10.1038/abc", "10.1000/182"}
	for _, d := range valid {
		if !validDOI(d) {
			t.Errorf("validDOI(%q) = false, want true", d)
		}
	}
	invalid := []string{"", "11.1038/abc", "10.1038", "10.1038/"}
	for _, d := range invalid {
		if validDOI(d) {
			t.Errorf("validDOI(%q) = true, want false", d)
		}
	}
}
