package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/litsort/litsort/internal/reference"
)

const (
	semanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"
	semanticScholarFields  = "title,authors,year,journal,venue,fieldsOfStudy"
)

// SemanticScholar is the academic-graph catalog. An API key is optional and
// only raises rate limits.
type SemanticScholar struct {
	client  *Client
	baseURL string
	apiKey  string
	enabled bool
}

// NewSemanticScholar creates the Semantic Scholar source.
func NewSemanticScholar(client *Client, apiKey string, enabled bool) *SemanticScholar {
	return &SemanticScholar{client: client, baseURL: semanticScholarBaseURL, apiKey: apiKey, enabled: enabled}
}

func (s *SemanticScholar) Name() string  { return "semantic_scholar" }
func (s *SemanticScholar) Enabled() bool { return s.enabled }

type semanticScholarPaper struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Venue   string `json:"venue"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Journal struct {
		Name   string `json:"name"`
		Volume string `json:"volume"`
		Pages  string `json:"pages"`
	} `json:"journal"`
	FieldsOfStudy []string `json:"fieldsOfStudy"`
}

// Lookup fetches a paper via the graph API's DOI: prefixed paper ID.
func (s *SemanticScholar) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	var header http.Header
	if s.apiKey != "" {
		header = http.Header{"X-Api-Key": []string{s.apiKey}}
	}

	url := s.baseURL + "/paper/DOI:" + doi + "?fields=" + semanticScholarFields
	var paper semanticScholarPaper
	if err := s.client.GetJSON(ctx, url, header, &paper); err != nil {
		return nil, err
	}

	m := &reference.Metadata{
		DOI:      doi,
		Title:    paper.Title,
		Volume:   paper.Journal.Volume,
		Pages:    paper.Journal.Pages,
		Subjects: paper.FieldsOfStudy,
		Source:   s.Name(),
	}
	if paper.Year != 0 {
		m.Year = strconv.Itoa(paper.Year)
	}
	if paper.Journal.Name != "" {
		m.Journal = paper.Journal.Name
	} else {
		m.Journal = paper.Venue
	}

	for _, a := range paper.Authors {
		if a.Name == "" {
			continue
		}
		m.Authors = append(m.Authors, reference.ParseAuthor(a.Name))
	}

	return m, nil
}
