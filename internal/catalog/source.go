// Package catalog resolves DOIs to bibliographic metadata by querying a
// prioritized chain of external catalog APIs.
package catalog

import (
	"context"

	"github.com/litsort/litsort/internal/reference"
)

// Source is a single bibliographic catalog queried by DOI. Implementations
// normalize their API-specific response shape into reference.Metadata,
// tolerating partial payloads: absent fields come back empty, never as
// errors.
type Source interface {
	// Lookup fetches metadata for a DOI. A nil error with sparse metadata is
	// normal; errors signal transport or payload failures and cause the
	// resolver to move on to the next source.
	Lookup(ctx context.Context, doi string) (*reference.Metadata, error)

	// Name identifies the source in logs and in Metadata.Source.
	Name() string

	// Enabled reports whether the source may be queried. Sources requiring
	// credentials report false until those are configured.
	Enabled() bool
}
