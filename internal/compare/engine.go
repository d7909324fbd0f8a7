package compare

import (
	"fmt"
	"sort"
)

// Result is the final comparison output handed to the presentation layer.
type Result struct {
	Baskets            []StoreBasket `json:"baskets"`
	CompleteBaskets    []StoreBasket `json:"complete_baskets"`
	CheapestTotal      float64       `json:"cheapest_total"`
	MostExpensiveTotal float64       `json:"most_expensive_total"`
	PotentialSavings   float64       `json:"potential_savings"`
	SavingsPercentage  string        `json:"savings_percentage"`

	// IsPartial is set when no basket covered the whole list and the
	// savings figures were computed over incomplete baskets. The numbers
	// then compare baskets with different item coverage and should be
	// presented with a caveat.
	IsPartial bool `json:"is_partial"`
}

// Compare ranks baskets and derives the savings between the cheapest and the
// most expensive complete basket. When no basket is complete the min/max fall
// back to all baskets, flagged via IsPartial.
func Compare(baskets []StoreBasket) Result {
	result := Result{SavingsPercentage: "0.0"}
	if len(baskets) == 0 {
		return result
	}

	for _, b := range baskets {
		if b.Complete() {
			result.CompleteBaskets = append(result.CompleteBaskets, b)
		}
	}

	pool := result.CompleteBaskets
	if len(pool) == 0 {
		pool = baskets
		result.IsPartial = true
	}

	result.CheapestTotal = pool[0].Total
	result.MostExpensiveTotal = pool[0].Total
	for _, b := range pool[1:] {
		if b.Total < result.CheapestTotal {
			result.CheapestTotal = b.Total
		}
		if b.Total > result.MostExpensiveTotal {
			result.MostExpensiveTotal = b.Total
		}
	}

	result.PotentialSavings = result.MostExpensiveTotal - result.CheapestTotal
	if result.MostExpensiveTotal > 0 {
		pct := result.PotentialSavings / result.MostExpensiveTotal * 100
		result.SavingsPercentage = fmt.Sprintf("%.1f", pct)
	}

	sorted := make([]StoreBasket, len(baskets))
	copy(sorted, baskets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AvailableItemsCount != sorted[j].AvailableItemsCount {
			return sorted[i].AvailableItemsCount > sorted[j].AvailableItemsCount
		}
		return sorted[i].Total < sorted[j].Total
	})
	result.Baskets = sorted

	return result
}
