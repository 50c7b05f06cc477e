package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/litsort/litsort/internal/reference"
)

// Options selects and credentials the catalog sources. The zero value
// disables everything; config supplies sensible defaults.
type Options struct {
	OpenAlex        bool
	Crossref        bool
	DataCite        bool
	EuropePMC       bool
	SemanticScholar bool
	Scopus          bool
	Unpaywall       bool

	SemanticScholarAPIKey string
	ScopusAPIKey          string
	UnpaywallEmail        string

	// ContactEmail, when set, is advertised in the User-Agent for the polite
	// pools of OpenAlex and Crossref.
	ContactEmail string

	// Timeout bounds each catalog request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// MetadataCache is an optional DOI-keyed cache consulted before the network.
type MetadataCache interface {
	Get(doi string) (*reference.Metadata, bool)
	Put(m *reference.Metadata) error
}

// Resolver queries catalog sources in priority order and returns the first
// sufficiently complete answer.
type Resolver struct {
	sources []Source
	cache   MetadataCache
	log     zerolog.Logger
}

// NewResolver builds a resolver with the default source chain, in priority
// order: OpenAlex (richest category tagging), Crossref, DataCite, Europe PMC,
// Semantic Scholar, Scopus, Unpaywall.
func NewResolver(opts Options, log zerolog.Logger) *Resolver {
	ua := DefaultUserAgent
	if opts.ContactEmail != "" {
		ua = "litsort/1.0 (mailto:" + opts.ContactEmail + ")"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := NewClient(WithTimeout(timeout), WithUserAgent(ua))

	sources := []Source{
		NewOpenAlex(client, opts.OpenAlex),
		NewCrossref(client, opts.Crossref),
		NewDataCite(client, opts.DataCite),
		NewEuropePMC(client, opts.EuropePMC),
		NewSemanticScholar(client, opts.SemanticScholarAPIKey, opts.SemanticScholar),
		NewScopus(client, opts.ScopusAPIKey, opts.Scopus),
		NewUnpaywall(client, opts.UnpaywallEmail, opts.Unpaywall),
	}

	return &Resolver{sources: sources, log: log}
}

// NewResolverWithSources builds a resolver over an explicit source chain.
// Priority is slice order.
func NewResolverWithSources(sources []Source, log zerolog.Logger) *Resolver {
	return &Resolver{sources: sources, log: log}
}

// SetCache attaches a metadata cache consulted before any network lookup.
func (r *Resolver) SetCache(c MetadataCache) { r.cache = c }

// Sources returns the configured chain in priority order.
func (r *Resolver) Sources() []Source { return r.sources }

// Resolve queries each enabled source in priority order, one attempt per
// source, and returns the first result carrying a non-empty title. Source
// failures are logged and skipped; nil is returned only when every enabled
// source fails or answers without a title.
func (r *Resolver) Resolve(ctx context.Context, doi string) *reference.Metadata {
	if r.cache != nil {
		if m, ok := r.cache.Get(doi); ok {
			r.log.Debug().Str("doi", doi).Str("source", m.Source).Msg("metadata cache hit")
			return m
		}
	}

	for _, src := range r.sources {
		if !src.Enabled() {
			continue
		}

		m, err := src.Lookup(ctx, doi)
		if err != nil {
			r.log.Debug().Err(err).Str("doi", doi).Str("source", src.Name()).Msg("source lookup failed")
			continue
		}
		if m == nil || m.Title == "" {
			r.log.Debug().Str("doi", doi).Str("source", src.Name()).Msg("source returned no title")
			continue
		}

		r.log.Info().Str("doi", doi).Str("source", src.Name()).Msg("metadata resolved")
		if r.cache != nil {
			if err := r.cache.Put(m); err != nil {
				r.log.Warn().Err(err).Str("doi", doi).Msg("caching metadata failed")
			}
		}
		return m
	}

	r.log.Warn().Str("doi", doi).Msg("no source returned metadata")
	return nil
}
