package compare

import (
	"sort"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/chains"
)

// MatchedItem is one shopping-list item resolved (or not) at one chain.
type MatchedItem struct {
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	Price              *float64        `json:"price"`
	MatchedProductName string          `json:"matched_product_name"`
	IsAvailable        bool            `json:"is_available"`
	Candidates         []catalog.Entry `json:"matched_candidates,omitempty"`
}

// StoreBasket is the per-chain aggregation of the whole list. Items keeps
// the input list's length and order even when nothing matched, so callers
// can render "missing N items" instead of dropping the chain.
type StoreBasket struct {
	StoreName           string        `json:"store_name"`
	StoreID             string        `json:"store_id,omitempty"`
	BranchName          string        `json:"branch_name,omitempty"`
	BranchAddress       string        `json:"branch_address,omitempty"`
	Items               []MatchedItem `json:"items"`
	Total               float64       `json:"total"`
	AvailableItemsCount int           `json:"available_items_count"`
}

// Complete reports whether every list item resolved to a price at this chain.
func (b StoreBasket) Complete() bool {
	return b.AvailableItemsCount == len(b.Items)
}

// BuildBaskets assembles one basket per canonical chain in the catalog
// snapshot. catalogChains names every chain carrying any product at all;
// chains stocking none of the list's items still get a basket with every
// item unavailable. Chains only seen in candidate rows are unioned in, so a
// failed (nil) chain enumeration degrades to candidate-derived baskets.
// candidatesPerItem is positional: candidatesPerItem[i] holds the catalog
// entries retrieved for items[i].
func BuildBaskets(normalizer *chains.Normalizer, items []ListItem, candidatesPerItem [][]catalog.Entry, catalogChains []string) []StoreBasket {
	chainSet := make(map[string]struct{})
	for _, raw := range catalogChains {
		if chain := normalizer.Normalize(raw); chain != "" {
			chainSet[chain] = struct{}{}
		}
	}

	matchedPerItem := make([]map[string][]catalog.Entry, len(items))
	rankedPerItem := make([][]catalog.Entry, len(items))
	for i := range items {
		var candidates []catalog.Entry
		if i < len(candidatesPerItem) {
			candidates = candidatesPerItem[i]
		}
		matched := MatchByChain(normalizer, candidates)
		matchedPerItem[i] = matched
		rankedPerItem[i] = rankCandidates(matched)
		for chain := range matched {
			chainSet[chain] = struct{}{}
		}
	}

	// Deterministic basket order pre-sort; the engine re-sorts by
	// completeness and price.
	chainNames := make([]string, 0, len(chainSet))
	for chain := range chainSet {
		chainNames = append(chainNames, chain)
	}
	sort.Strings(chainNames)

	baskets := make([]StoreBasket, 0, len(chainNames))
	for _, chain := range chainNames {
		basket := StoreBasket{StoreName: chain}
		for i, item := range items {
			matched := matchedPerItem[i][chain]

			line := MatchedItem{
				Name:       item.Name,
				Quantity:   item.quantity(),
				Candidates: rankedPerItem[i],
			}
			if len(matched) > 0 {
				best := matched[0]
				price := best.Price
				line.Price = &price
				line.MatchedProductName = best.ProductName
				line.IsAvailable = true

				basket.Total += price * float64(line.Quantity)
				basket.AvailableItemsCount++

				if basket.StoreID == "" {
					basket.StoreID = best.BranchID()
				}
				if basket.BranchName == "" {
					basket.BranchName = best.BranchName()
				}
			}
			basket.Items = append(basket.Items, line)
		}
		baskets = append(baskets, basket)
	}

	return baskets
}
