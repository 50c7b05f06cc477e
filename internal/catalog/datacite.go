package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/litsort/litsort/internal/reference"
)

const dataCiteBaseURL = "https://api.datacite.org"

// DataCite is the secondary DOI registration catalog, covering datasets and
// repository-published material Crossref does not.
type DataCite struct {
	client  *Client
	baseURL string
	enabled bool
}

// NewDataCite creates the DataCite source.
func NewDataCite(client *Client, enabled bool) *DataCite {
	return &DataCite{client: client, baseURL: dataCiteBaseURL, enabled: enabled}
}

func (s *DataCite) Name() string  { return "datacite" }
func (s *DataCite) Enabled() bool { return s.enabled }

type dataCiteResponse struct {
	Data struct {
		Attributes struct {
			Titles []struct {
				Title string `json:"title"`
			} `json:"titles"`
			Creators []struct {
				Name       string `json:"name"`
				FamilyName string `json:"familyName"`
				GivenName  string `json:"givenName"`
			} `json:"creators"`
			PublicationYear int `json:"publicationYear"`
			Container       struct {
				Title     string `json:"title"`
				Volume    string `json:"volume"`
				Issue     string `json:"issue"`
				FirstPage string `json:"firstPage"`
				LastPage  string `json:"lastPage"`
			} `json:"container"`
			Subjects []struct {
				Subject string `json:"subject"`
			} `json:"subjects"`
		} `json:"attributes"`
	} `json:"data"`
}

// Lookup fetches a DOI record from api.datacite.org/dois/{doi}. DataCite
// speaks JSON:API, hence the vendor Accept header.
func (s *DataCite) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	header := http.Header{"Accept": []string{"application/vnd.api+json"}}

	var resp dataCiteResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"/dois/"+doi, header, &resp); err != nil {
		return nil, err
	}
	attr := resp.Data.Attributes

	m := &reference.Metadata{
		DOI:     doi,
		Journal: attr.Container.Title,
		Volume:  attr.Container.Volume,
		Issue:   attr.Container.Issue,
		Source:  s.Name(),
	}
	if len(attr.Titles) > 0 {
		m.Title = attr.Titles[0].Title
	}
	if attr.PublicationYear != 0 {
		m.Year = strconv.Itoa(attr.PublicationYear)
	}
	if attr.Container.FirstPage != "" && attr.Container.LastPage != "" {
		m.Pages = attr.Container.FirstPage + "-" + attr.Container.LastPage
	}

	for _, c := range attr.Creators {
		switch {
		case c.FamilyName != "":
			m.Authors = append(m.Authors, reference.Author{Family: c.FamilyName, Given: c.GivenName})
		case c.Name != "":
			m.Authors = append(m.Authors, reference.ParseAuthor(c.Name))
		}
	}

	for _, sub := range attr.Subjects {
		if sub.Subject != "" {
			m.Subjects = append(m.Subjects, sub.Subject)
		}
	}

	return m, nil
}
