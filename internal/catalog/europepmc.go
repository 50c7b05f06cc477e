package catalog

import (
	"context"
	"net/url"

	"github.com/litsort/litsort/internal/reference"
)

const europePMCBaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest"

// EuropePMC is the biomedical and life-science literature catalog.
type EuropePMC struct {
	client  *Client
	baseURL string
	enabled bool
}

// NewEuropePMC creates the Europe PMC source.
func NewEuropePMC(client *Client, enabled bool) *EuropePMC {
	return &EuropePMC{client: client, baseURL: europePMCBaseURL, enabled: enabled}
}

func (s *EuropePMC) Name() string  { return "europepmc" }
func (s *EuropePMC) Enabled() bool { return s.enabled }

type europePMCResponse struct {
	ResultList struct {
		Result []struct {
			Title         string `json:"title"`
			PubYear       string `json:"pubYear"`
			JournalTitle  string `json:"journalTitle"`
			JournalVolume string `json:"journalVolume"`
			JournalIssue  string `json:"journalIssue"`
			PageInfo      string `json:"pageInfo"`
			AuthorList    struct {
				Author []struct {
					FirstName string `json:"firstName"`
					LastName  string `json:"lastName"`
					Initials  string `json:"initials"`
				} `json:"author"`
			} `json:"authorList"`
			KeywordList struct {
				Keyword []string `json:"keyword"`
			} `json:"keywordList"`
		} `json:"result"`
	} `json:"resultList"`
}

// Lookup searches Europe PMC by DOI. The REST search endpoint takes the DOI
// as a query term rather than a path segment.
func (s *EuropePMC) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	q := url.Values{
		"query":  []string{"DOI:" + doi},
		"format": []string{"json"},
	}

	var resp europePMCResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	m := &reference.Metadata{DOI: doi, Source: s.Name()}
	if len(resp.ResultList.Result) == 0 {
		return m, nil
	}
	r := resp.ResultList.Result[0]

	m.Title = r.Title
	m.Year = r.PubYear
	m.Journal = r.JournalTitle
	m.Volume = r.JournalVolume
	m.Issue = r.JournalIssue
	m.Pages = r.PageInfo

	for _, a := range r.AuthorList.Author {
		if a.LastName == "" {
			continue
		}
		given := a.FirstName
		if given == "" {
			given = a.Initials
		}
		m.Authors = append(m.Authors, reference.Author{Family: a.LastName, Given: given})
	}

	for _, k := range r.KeywordList.Keyword {
		if k != "" {
			m.Subjects = append(m.Subjects, k)
		}
	}

	return m, nil
}
