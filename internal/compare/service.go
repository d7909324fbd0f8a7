package compare

import (
	"context"
	"sync"
	"time"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/chains"
	"github.com/salsheli/salsheli-backend/pkg/logger"
	"github.com/salsheli/salsheli-backend/pkg/metrics"
)

// CandidateFinder retrieves catalog candidates for one list item and
// enumerates the chains of the catalog snapshot. Lookup failures surface as
// empty results, never as errors.
type CandidateFinder interface {
	FindCandidates(ctx context.Context, name, productCode string) []catalog.Entry
	CatalogChains(ctx context.Context) []string
}

// Options bound the per-item catalog fan-out.
type Options struct {
	// LookupConcurrency caps concurrent per-item catalog lookups.
	LookupConcurrency int
	// LookupTimeout bounds each item's candidate retrieval; on timeout the
	// item degrades to "no candidates".
	LookupTimeout time.Duration
}

// Service runs the full comparison pipeline: candidate retrieval per item,
// per-chain matching, basket aggregation, and ranking. It holds no state
// between runs; every call recomputes from the current catalog snapshot.
type Service struct {
	finder      CandidateFinder
	normalizer  *chains.Normalizer
	logg        *logger.Logger
	concurrency int
	timeout     time.Duration
}

func NewService(finder CandidateFinder, normalizer *chains.Normalizer, logg *logger.Logger, opts Options) *Service {
	concurrency := opts.LookupConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		finder:      finder,
		normalizer:  normalizer,
		logg:        logg,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// CompareShoppingList resolves every list item against the catalog and
// returns the ranked baskets. An empty list yields an empty result, not an
// error. Cancelling ctx abandons in-flight lookups; items whose lookup never
// ran are treated as unmatched.
func (s *Service) CompareShoppingList(ctx context.Context, items []ListItem) (Result, error) {
	start := time.Now()

	if len(items) == 0 {
		return Result{SavingsPercentage: "0.0"}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// Item lookups are independent, so fan out with a bounded worker cap.
	// Each goroutine writes only its own slot.
	candidatesPerItem := make([][]catalog.Entry, len(items))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, item ListItem) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			candidatesPerItem[i] = s.finder.FindCandidates(lookupCtx, item.Name, item.ProductCode)
		}(i, item)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.RecordComparison(time.Since(start), "cancelled", 0, 0)
		return Result{}, err
	}

	// Every chain in the snapshot gets a basket, matched or not, so callers
	// can render "0 of N available at X" rather than silently dropping X.
	baskets := BuildBaskets(s.normalizer, items, candidatesPerItem, s.finder.CatalogChains(ctx))
	result := Compare(baskets)

	matched, unmatched := 0, 0
	for _, candidates := range candidatesPerItem {
		if len(candidates) > 0 {
			matched++
		} else {
			unmatched++
		}
	}
	metrics.RecordComparison(time.Since(start), "ok", matched, unmatched)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"items":     len(items),
			"matched":   matched,
			"unmatched": unmatched,
			"baskets":   len(result.Baskets),
			"complete":  len(result.CompleteBaskets),
		})
		s.logg.Info(ctx, "comparison run finished")
	}

	return result, nil
}
