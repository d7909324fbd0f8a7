package catalog

import (
	"context"
	"strings"

	"github.com/salsheli/salsheli-backend/pkg/logger"
	"github.com/salsheli/salsheli-backend/pkg/metrics"
)

// Word tokens shorter than this are too ambiguous for the fallback search
// ("תנובה" is fine, "3%" and "של" are noise).
const minFallbackTokenLen = 4

// Finder retrieves candidate catalog entries for one shopping-list item,
// trying the search tiers in strict priority order: exact product code, full
// name containment, then a per-word union. The first tier with results wins.
//
// A failing catalog query never fails the lookup; it is logged, counted, and
// treated as an empty result so the overall comparison degrades instead of
// erroring.
type Finder struct {
	repo  Repository
	logg  *logger.Logger
	limit int
}

func NewFinder(repo Repository, logg *logger.Logger, candidateLimit int) *Finder {
	if candidateLimit <= 0 {
		candidateLimit = 200
	}
	return &Finder{repo: repo, logg: logg, limit: candidateLimit}
}

// FindCandidates returns candidate entries across every chain in the catalog.
// Malformed rows (no chain, no price) are dropped here so downstream matching
// only ever sees usable candidates.
func (f *Finder) FindCandidates(ctx context.Context, name, productCode string) []Entry {
	if code := strings.TrimSpace(productCode); code != "" {
		entries, err := f.repo.QueryByCode(ctx, []string{code})
		if err != nil {
			f.degrade(ctx, "code", name, err)
		} else if found := f.usable(ctx, entries); len(found) > 0 {
			return found
		}
	}

	term := strings.Join(strings.Fields(name), " ")
	if term == "" {
		return nil
	}

	entries, err := f.repo.QueryByNameSubstring(ctx, term, f.limit)
	if err != nil {
		f.degrade(ctx, "name", name, err)
	} else if found := f.usable(ctx, entries); len(found) > 0 {
		return found
	}

	return f.usable(ctx, f.wordFallback(ctx, term))
}

// CatalogChains returns every chain present in the catalog snapshot. A
// failing enumeration degrades to nil, in which case basket building falls
// back to the chains seen in the candidates themselves.
func (f *Finder) CatalogChains(ctx context.Context) []string {
	chains, err := f.repo.ListChains(ctx)
	if err != nil {
		f.degrade(ctx, "chains", "", err)
		return nil
	}
	return chains
}

// wordFallback queries each sufficiently long token independently and unions
// the results. Duplicates are allowed; matching de-duplicates downstream.
func (f *Finder) wordFallback(ctx context.Context, term string) []Entry {
	var union []Entry
	for _, token := range strings.Fields(term) {
		if len([]rune(token)) < minFallbackTokenLen {
			continue
		}
		entries, err := f.repo.QueryByNameSubstring(ctx, token, f.limit)
		if err != nil {
			f.degrade(ctx, "word", token, err)
			continue
		}
		union = append(union, entries...)
	}
	return union
}

func (f *Finder) usable(ctx context.Context, entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	valid := make([]Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if !e.Valid() {
			skipped++
			continue
		}
		valid = append(valid, e)
	}
	if skipped > 0 && f.logg != nil {
		f.logg.Debug(f.logg.WithField(ctx, "skipped", skipped), "dropped malformed catalog rows")
	}
	return valid
}

func (f *Finder) degrade(ctx context.Context, tier, term string, err error) {
	metrics.RecordCatalogQueryError(tier)
	if f.logg != nil {
		ctx = f.logg.WithFields(ctx, map[string]any{"tier": tier, "term": term})
		f.logg.Warn(ctx, "catalog query failed, degrading to empty candidates: "+err.Error())
	}
}
