package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/litsort/litsort/internal/reference"
)

const openAlexBaseURL = "https://api.openalex.org"

// conceptScoreFloor filters out weakly-associated OpenAlex concepts.
const conceptScoreFloor = 0.4

// OpenAlex is the highest-priority source: its concept tagging gives the
// richest category information for folder categorization.
type OpenAlex struct {
	client  *Client
	baseURL string
	enabled bool
}

// NewOpenAlex creates the OpenAlex source.
func NewOpenAlex(client *Client, enabled bool) *OpenAlex {
	return &OpenAlex{client: client, baseURL: openAlexBaseURL, enabled: enabled}
}

func (s *OpenAlex) Name() string  { return "openalex" }
func (s *OpenAlex) Enabled() bool { return s.enabled }

type openAlexWork struct {
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	PublicationYear int    `json:"publication_year"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	HostVenue struct {
		DisplayName string `json:"display_name"`
	} `json:"host_venue"`
	Biblio struct {
		Volume    string `json:"volume"`
		Issue     string `json:"issue"`
		FirstPage string `json:"first_page"`
		LastPage  string `json:"last_page"`
	} `json:"biblio"`
	Concepts []struct {
		DisplayName string  `json:"display_name"`
		Score       float64 `json:"score"`
	} `json:"concepts"`
	PrimaryTopic struct {
		DisplayName string `json:"display_name"`
	} `json:"primary_topic"`
}

// Lookup fetches a work by DOI. OpenAlex addresses works by their full
// https://doi.org URL as a path segment.
func (s *OpenAlex) Lookup(ctx context.Context, doi string) (*reference.Metadata, error) {
	var work openAlexWork
	url := s.baseURL + "/works/https://doi.org/" + doi
	if err := s.client.GetJSON(ctx, url, nil, &work); err != nil {
		return nil, err
	}

	m := &reference.Metadata{
		DOI:    doi,
		Title:  work.Title,
		Source: s.Name(),
	}

	for _, a := range work.Authorships {
		if a.Author.DisplayName == "" {
			continue
		}
		m.Authors = append(m.Authors, reference.ParseAuthor(a.Author.DisplayName))
	}

	if work.PublicationDate != "" {
		m.Year, _, _ = strings.Cut(work.PublicationDate, "-")
	} else if work.PublicationYear != 0 {
		m.Year = strconv.Itoa(work.PublicationYear)
	}

	if work.PrimaryLocation.Source.DisplayName != "" {
		m.Journal = work.PrimaryLocation.Source.DisplayName
	} else {
		m.Journal = work.HostVenue.DisplayName
	}

	m.Volume = work.Biblio.Volume
	m.Issue = work.Biblio.Issue
	if work.Biblio.FirstPage != "" && work.Biblio.LastPage != "" {
		m.Pages = work.Biblio.FirstPage + "-" + work.Biblio.LastPage
	}

	// Concepts ranked by score, then the primary topic as fallback.
	concepts := work.Concepts
	sort.SliceStable(concepts, func(i, j int) bool { return concepts[i].Score > concepts[j].Score })
	for _, c := range concepts {
		if c.Score > conceptScoreFloor && c.DisplayName != "" {
			m.Subjects = append(m.Subjects, c.DisplayName)
		}
	}
	if len(m.Subjects) == 0 && work.PrimaryTopic.DisplayName != "" {
		m.Subjects = append(m.Subjects, work.PrimaryTopic.DisplayName)
	}

	return m, nil
}
