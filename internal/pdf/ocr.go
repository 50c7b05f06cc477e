package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// OCRExtractor implements TextExtractor by shelling out to pdftoppm and
// tesseract. It is only constructed when the user opts in to OCR and both
// binaries are installed.
type OCRExtractor struct {
	pdftoppm  string
	tesseract string
}

// NewOCRExtractor returns an OCR extractor, or an error when the required
// binaries are not on PATH.
func NewOCRExtractor() (*OCRExtractor, error) {
	pdftoppm, err := exec.LookPath("pdftoppm")
	if err != nil {
		return nil, fmt.Errorf("ocr unavailable: %w", err)
	}
	tesseract, err := exec.LookPath("tesseract")
	if err != nil {
		return nil, fmt.Errorf("ocr unavailable: %w", err)
	}
	return &OCRExtractor{pdftoppm: pdftoppm, tesseract: tesseract}, nil
}

// ExtractText rasterizes the page range to images and runs OCR over each,
// returning the concatenated text.
func (o *OCRExtractor) ExtractText(path string, firstPage, lastPage int) (string, error) {
	tmp, err := os.MkdirTemp("", "litsort-ocr-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	prefix := filepath.Join(tmp, "page")
	render := exec.Command(o.pdftoppm,
		"-png", "-r", "300",
		"-f", strconv.Itoa(firstPage),
		"-l", strconv.Itoa(lastPage),
		path, prefix)
	if out, err := render.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm: %v: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no pages rendered for %s", path)
	}
	sort.Strings(images)

	var b strings.Builder
	for _, img := range images {
		out, err := exec.Command(o.tesseract, img, "stdout").Output()
		if err != nil {
			// One unreadable page should not sink the rest.
			continue
		}
		b.Write(out)
		b.WriteString("\n")
	}
	return b.String(), nil
}
