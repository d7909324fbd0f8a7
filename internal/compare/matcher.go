// Package compare implements the multi-store basket comparison pipeline:
// per-chain matching, basket aggregation, and the savings calculation.
package compare

import (
	"sort"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/chains"
)

// ListItem is the comparison-side view of a shopping-list item.
type ListItem struct {
	ID          string
	Name        string
	ProductCode string
	Quantity    int
}

func (it ListItem) quantity() int {
	if it.Quantity <= 0 {
		return 1
	}
	return it.Quantity
}

// MatchByChain groups candidates by canonical chain and sorts each group
// ascending by price, so the head of every group is that chain's match.
// Duplicate rows from the per-word search union collapse to one.
func MatchByChain(normalizer *chains.Normalizer, candidates []catalog.Entry) map[string][]catalog.Entry {
	byChain := make(map[string][]catalog.Entry)
	seen := make(map[catalog.Entry]struct{}, len(candidates))

	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		// Identity is (chain, code, name, price): branch and store fields
		// are ignored so the same product from two branches collapses too.
		key := c
		key.Branch = nil
		key.StoreID = ""
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		chain := normalizer.Normalize(c.ChainName())
		if chain == "" {
			continue
		}
		byChain[chain] = append(byChain[chain], c)
	}

	for chain := range byChain {
		group := byChain[chain]
		sort.Slice(group, func(i, j int) bool {
			return group[i].Price < group[j].Price
		})
	}

	return byChain
}

// rankCandidates returns the de-duplicated candidate set across all chains,
// cheapest first, for alternate-chain display.
func rankCandidates(byChain map[string][]catalog.Entry) []catalog.Entry {
	var ranked []catalog.Entry
	for _, group := range byChain {
		ranked = append(ranked, group...)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].ProductName < ranked[j].ProductName
	})
	return ranked
}
