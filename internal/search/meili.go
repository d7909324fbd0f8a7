// Package search serves free-text product search from a Meilisearch index
// kept in sync with the catalog table.
package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	meilisearch "github.com/meilisearch/meilisearch-go"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/pkg/config"
)

// Client wraps the Meilisearch index used by the product picker.
type Client struct {
	manager   meilisearch.ServiceManager
	indexName string
}

func NewClient(cfg config.MeiliConfig) *Client {
	return &Client{
		manager:   meilisearch.New(cfg.URL, meilisearch.WithAPIKey(cfg.APIKey)),
		indexName: cfg.IndexName,
	}
}

// Result is one page of search hits mapped back onto catalog entries.
type Result struct {
	Entries          []catalog.Entry
	Total            int
	ProcessingTimeMs int
}

// Filters narrows a search. Zero values mean "no filter".
type Filters struct {
	MinPrice float64
	MaxPrice float64
	Chains   []string
}

// Search queries the products index. Prices are stored in agorot in the
// index and converted back to shekels here.
func (c *Client) Search(query string, filters Filters, limit, offset int) (Result, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	req := &meilisearch.SearchRequest{
		Limit:  int64(limit),
		Offset: int64(offset),
	}
	if filter := buildFilter(filters); filter != "" {
		req.Filter = filter
	}

	res, err := c.manager.Index(c.indexName).Search(query, req)
	if err != nil {
		return Result{}, fmt.Errorf("meilisearch query: %w", err)
	}

	var hits []map[string]interface{}
	b, _ := json.Marshal(res.Hits)
	_ = json.Unmarshal(b, &hits)

	out := Result{ProcessingTimeMs: int(res.ProcessingTimeMs)}
	if res.EstimatedTotalHits > 0 {
		out.Total = int(res.EstimatedTotalHits)
	} else {
		out.Total = len(hits)
	}

	for _, h := range hits {
		entry := catalog.Entry{
			ProductCode: getString(h, "productCode"),
			ProductName: getString(h, "productName"),
			Price:       getFloat(h, "price") / 100.0,
			StoreChain:  getString(h, "storeChain"),
			StoreID:     getString(h, "storeId"),
		}
		if entry.ProductName == "" {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

func buildFilter(filters Filters) string {
	var parts []string
	if filters.MinPrice > 0 {
		parts = append(parts, "price >= "+strconv.Itoa(int(filters.MinPrice*100)))
	}
	if filters.MaxPrice > 0 {
		parts = append(parts, "price <= "+strconv.Itoa(int(filters.MaxPrice*100)))
	}
	if len(filters.Chains) > 0 {
		row := make([]string, 0, len(filters.Chains))
		for _, chain := range filters.Chains {
			row = append(row, `storeChain = "`+strings.ReplaceAll(chain, `"`, `\"`)+`"`)
		}
		parts = append(parts, "("+strings.Join(row, " OR ")+")")
	}
	return strings.Join(parts, " AND ")
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case float64:
			return t
		case float32:
			return float64(t)
		case int:
			return float64(t)
		case int64:
			return float64(t)
		}
	}
	return 0
}
