// Package pdf extracts text and DOIs from PDF files.
package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors distinguishing why a PDF could not be examined. A PDF that
// opens fine but contains no DOI is not an error.
var (
	// ErrRead indicates the file could not be opened or parsed as a PDF.
	ErrRead = errors.New("cannot read pdf")

	// ErrEncrypted indicates the file is password-protected.
	ErrEncrypted = errors.New("pdf is encrypted")
)

// Page windows searched for a DOI. DOIs almost always appear on the first
// page; five pages covers journals that front-load editorial matter. OCR is
// slower, so the secondary pass looks at fewer pages.
const (
	primaryPages   = 5
	secondaryPages = 3
)

// TextExtractor produces plain text from a page range of a PDF file. It is
// the hook for secondary (OCR-style) extraction; implementations live behind
// this interface so nothing here depends on a particular OCR engine.
type TextExtractor interface {
	ExtractText(path string, firstPage, lastPage int) (string, error)
}

// ExtractDOI extracts a DOI from the PDF at path.
//
// Embedded document metadata is trusted first. Failing that, the ordered DOI
// patterns are matched against the text of the first five pages. If no text
// at all could be extracted and a secondary extractor is supplied, its text
// for pages 1-3 is searched with the same patterns. Returns "" with a nil
// error when the document simply carries no detectable DOI.
func ExtractDOI(path string, secondary TextExtractor) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", classifyOpenError(err)
	}
	defer f.Close()

	if doi := metadataDOI(r); doi != "" {
		return doi, nil
	}

	text := pageText(r, primaryPages)
	if doi := FindDOI(text); doi != "" {
		return doi, nil
	}

	if strings.TrimSpace(text) == "" && secondary != nil {
		ocrText, err := secondary.ExtractText(path, 1, secondaryPages)
		if err != nil {
			// Secondary extraction is best-effort; its failure still just
			// means no DOI was found.
			return "", nil
		}
		return FindDOI(ocrText), nil
	}

	return "", nil
}

// metadataDOI returns an explicit "doi" entry from the document info
// dictionary, the highest-trust source when present.
func metadataDOI(r *pdf.Reader) string {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	for _, key := range []string{"doi", "DOI"} {
		v := info.Key(key)
		if v.Kind() == pdf.String {
			if doi := strings.TrimSpace(v.Text()); validDOI(doi) {
				return doi
			}
		}
	}
	return ""
}

// pageText concatenates plain text from the first maxPages pages.
func pageText(r *pdf.Reader, maxPages int) string {
	if maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return fmt.Errorf("%w: %v", ErrEncrypted, err)
	}
	return fmt.Errorf("%w: %v", ErrRead, err)
}
