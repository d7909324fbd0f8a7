package catalog

import "context"

// Repository is the read API against the hosted catalog store.
type Repository interface {
	// QueryByCode returns every entry matching one of the exact product
	// codes, across all chains.
	QueryByCode(ctx context.Context, codes []string) ([]Entry, error)

	// QueryByNameSubstring returns entries whose name contains the term, or
	// whose name the term contains, case-insensitively.
	QueryByNameSubstring(ctx context.Context, term string, limit int) ([]Entry, error)

	// ListChains returns every distinct chain present in the catalog
	// snapshot, including chains that stock none of a given list's items.
	ListChains(ctx context.Context) ([]string, error)
}
