package catalog

import (
	"context"
	"strconv"

	"github.com/litsort/litsort/internal/reference"
)

const crossrefBaseURL = "https://api.crossref.org"

// Crossref is the general citation-graph catalog, second in the chain.
type Crossref struct {
	client  *Client
	baseURL string
	enabled bool
}

// NewCrossref creates the Crossref source.
func NewCrossref(client *Client, enabled bool) *Crossref {
	return &Crossref{client: client, baseURL: crossrefBaseURL, enabled: enabled}
}

func (s *Crossref) Name() string  { return "crossref" }
func (s *Crossref) Enabled() bool { return s.enabled }

type crossrefWork struct {
	Message struct {
		Title          []string `json:"title"`
		ContainerTitle []string `json:"container-title"`
		Volume         string   `json:"volume"`
		Issue          string   `json:"issue"`
		Page           string   `json:"page"`
		Subject        []string `json:"subject"`
		Author         []struct {
			Family string `json:"family"`
			Given  string `json:"given"`
		} `json:"author"`
		PublishedPrint  crossrefDate `json:"published-print"`
		PublishedOnline crossrefDate `json:"published-online"`
		Created         crossrefDate `json:"created"`
	} `json:"message"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefDate) year() string {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 && d.DateParts[0][0] != 0 {
		return strconv.Itoa(d.DateParts[0][0])
	}
	return ""
}

// Lookup fetches a work by DOI from api.crossref.org/works/{doi}.
func (s *Crossref) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	var work crossrefWork
	if err := s.client.GetJSON(ctx, s.baseURL+"/works/"+doi, nil, &work); err != nil {
		return nil, err
	}
	msg := work.Message

	m := &reference.Metadata{
		DOI:      doi,
		Volume:   msg.Volume,
		Issue:    msg.Issue,
		Pages:    msg.Page,
		Subjects: msg.Subject,
		Source:   s.Name(),
	}
	if len(msg.Title) > 0 {
		m.Title = msg.Title[0]
	}
	if len(msg.ContainerTitle) > 0 {
		m.Journal = msg.ContainerTitle[0]
	}

	for _, a := range msg.Author {
		if a.Family == "" {
			continue
		}
		m.Authors = append(m.Authors, reference.Author{Family: a.Family, Given: a.Given})
	}

	// Print date preferred, then online, then record creation.
	for _, d := range []crossrefDate{msg.PublishedPrint, msg.PublishedOnline, msg.Created} {
		if y := d.year(); y != "" {
			m.Year = y
			break
		}
	}

	return m, nil
}
