package search

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/lib/pq"
	meilisearch "github.com/meilisearch/meilisearch-go"

	"github.com/salsheli/salsheli-backend/pkg/config"
	"github.com/salsheli/salsheli-backend/pkg/logger"
)

// Indexer syncs catalog rows into the Meilisearch products index.
type Indexer struct {
	db        *sql.DB
	manager   meilisearch.ServiceManager
	indexName string
	logg      *logger.Logger
}

func NewIndexer(db *sql.DB, cfg config.MeiliConfig, logg *logger.Logger) *Indexer {
	return &Indexer{
		db:        db,
		manager:   meilisearch.New(cfg.URL, meilisearch.WithAPIKey(cfg.APIKey)),
		indexName: cfg.IndexName,
		logg:      logg,
	}
}

type indexRow struct {
	ID          int64
	ProductCode string
	ProductName string
	Price       float64
	StoreChain  string
	StoreID     string
}

// IndexNewProducts indexes catalog rows that have not been pushed to
// Meilisearch yet and marks them as indexed. Returns the number of rows
// indexed.
func (ix *Indexer) IndexNewProducts(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	var total int
	err := ix.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM store_products WHERE indexed_at IS NULL`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count unindexed products: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	ix.logg.Info(ix.logg.WithField(ctx, "pending", total), "indexing new products")

	index := ix.manager.Index(ix.indexName)
	indexed := 0
	for indexed < total {
		batch, err := ix.fetchUnindexedBatch(ctx, batchSize)
		if err != nil {
			return indexed, fmt.Errorf("fetch batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		docs := make([]map[string]interface{}, 0, len(batch))
		ids := make([]int64, 0, len(batch))
		for _, row := range batch {
			docs = append(docs, toDocument(row))
			ids = append(ids, row.ID)
		}

		if _, err := index.AddDocuments(docs, nil); err != nil {
			return indexed, fmt.Errorf("add documents: %w", err)
		}
		if err := ix.markIndexed(ctx, ids); err != nil {
			return indexed, err
		}

		indexed += len(batch)
		ix.logg.Debug(ix.logg.WithFields(ctx, map[string]any{
			"indexed": indexed,
			"total":   total,
		}), "indexed batch")
	}

	return indexed, nil
}

// RebuildIndex drops the products index, reapplies settings and reindexes
// the whole catalog.
func (ix *Indexer) RebuildIndex(ctx context.Context, batchSize int) (int, error) {
	if _, err := ix.manager.DeleteIndex(ix.indexName); err != nil {
		// A missing index is fine on first run.
		ix.logg.Debug(ix.logg.WithField(ctx, "error", err.Error()), "delete index")
	}
	if _, err := ix.manager.CreateIndex(&meilisearch.IndexConfig{
		Uid:        ix.indexName,
		PrimaryKey: "id",
	}); err != nil {
		return 0, fmt.Errorf("create index: %w", err)
	}
	if err := ix.applySettings(); err != nil {
		return 0, err
	}

	if _, err := ix.db.ExecContext(ctx,
		`UPDATE store_products SET indexed_at = NULL`); err != nil {
		return 0, fmt.Errorf("reset index markers: %w", err)
	}

	return ix.IndexNewProducts(ctx, batchSize)
}

func (ix *Indexer) fetchUnindexedBatch(ctx context.Context, batchSize int) ([]indexRow, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, product_code, product_name, price, store_chain, COALESCE(store_id, '')
		FROM store_products
		WHERE indexed_at IS NULL
		ORDER BY id
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []indexRow
	for rows.Next() {
		var row indexRow
		if err := rows.Scan(&row.ID, &row.ProductCode, &row.ProductName,
			&row.Price, &row.StoreChain, &row.StoreID); err != nil {
			ix.logg.Warn(ix.logg.WithField(ctx, "error", err.Error()), "skipping unreadable catalog row")
			continue
		}
		batch = append(batch, row)
	}
	return batch, rows.Err()
}

func (ix *Indexer) markIndexed(ctx context.Context, ids []int64) error {
	_, err := ix.db.ExecContext(ctx, `
		UPDATE store_products SET indexed_at = NOW() WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("mark indexed: %w", err)
	}
	return nil
}

func toDocument(row indexRow) map[string]interface{} {
	return map[string]interface{}{
		"id":             fmt.Sprintf("product_%d", row.ID),
		"productCode":    row.ProductCode,
		"productName":    row.ProductName,
		"normalizedName": strings.ToLower(strings.Join(strings.Fields(row.ProductName), " ")),
		"price":          int(math.Round(row.Price * 100)),
		"storeChain":     row.StoreChain,
		"storeId":        row.StoreID,
	}
}

func (ix *Indexer) applySettings() error {
	index := ix.manager.Index(ix.indexName)

	searchable := []string{"productName", "normalizedName", "productCode"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}

	filterable := []interface{}{"price", "storeChain", "productCode"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}

	sortable := []string{"price", "productName"}
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		return fmt.Errorf("update sortable attributes: %w", err)
	}

	return nil
}
