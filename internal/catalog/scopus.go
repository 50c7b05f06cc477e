package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/litsort/litsort/internal/reference"
)

const scopusBaseURL = "https://api.elsevier.com"

// Scopus is the commercial abstract catalog. It is skipped entirely unless
// an API key is configured.
type Scopus struct {
	client  *Client
	baseURL string
	apiKey  string
	enabled bool
}

// NewScopus creates the Scopus source.
func NewScopus(client *Client, apiKey string, enabled bool) *Scopus {
	return &Scopus{client: client, baseURL: scopusBaseURL, apiKey: apiKey, enabled: enabled}
}

func (s *Scopus) Name() string { return "scopus" }

// Enabled requires both the configuration toggle and an API key.
func (s *Scopus) Enabled() bool { return s.enabled && s.apiKey != "" }

type scopusResponse struct {
	AbstractsRetrievalResponse struct {
		Coredata struct {
			Title           string `json:"dc:title"`
			CoverDate       string `json:"prism:coverDate"`
			PublicationName string `json:"prism:publicationName"`
			Volume          string `json:"prism:volume"`
			IssueIdentifier string `json:"prism:issueIdentifier"`
			PageRange       string `json:"prism:pageRange"`
		} `json:"coredata"`
		Authors struct {
			Author []struct {
				Surname   string `json:"ce:surname"`
				GivenName string `json:"ce:given-name"`
			} `json:"author"`
		} `json:"authors"`
		SubjectAreas struct {
			SubjectArea []struct {
				Value string `json:"$"`
			} `json:"subject-area"`
		} `json:"subject-areas"`
	} `json:"abstracts-retrieval-response"`
}

// Lookup fetches an abstract record by DOI, authenticated via X-ELS-APIKey.
func (s *Scopus) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	header := http.Header{"X-Els-Apikey": []string{s.apiKey}}

	var resp scopusResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"/content/abstract/doi/"+doi, header, &resp); err != nil {
		return nil, err
	}
	data := resp.AbstractsRetrievalResponse

	m := &reference.Metadata{
		DOI:     doi,
		Title:   data.Coredata.Title,
		Journal: data.Coredata.PublicationName,
		Volume:  data.Coredata.Volume,
		Issue:   data.Coredata.IssueIdentifier,
		Pages:   data.Coredata.PageRange,
		Source:  s.Name(),
	}
	if d := data.Coredata.CoverDate; d != "" {
		m.Year, _, _ = strings.Cut(d, "-")
	}

	for _, a := range data.Authors.Author {
		if a.Surname == "" {
			continue
		}
		m.Authors = append(m.Authors, reference.Author{Family: a.Surname, Given: a.GivenName})
	}

	for _, sa := range data.SubjectAreas.SubjectArea {
		if sa.Value != "" {
			m.Subjects = append(m.Subjects, sa.Value)
		}
	}

	return m, nil
}
