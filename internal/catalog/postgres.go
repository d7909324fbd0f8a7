package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresRepository reads catalog rows from the store_products table the
// ingestion functions upsert into.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `product_code, product_name, price, store_chain, COALESCE(store_id, ''), branch_mapping`

func (r *PostgresRepository) QueryByCode(ctx context.Context, codes []string) ([]Entry, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		  FROM store_products
		  WHERE product_code = ANY($1)`, pq.Array(codes))
	if err != nil {
		return nil, fmt.Errorf("query by code: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *PostgresRepository) QueryByNameSubstring(ctx context.Context, term string, limit int) ([]Entry, error) {
	term = strings.Join(strings.Fields(term), " ")
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	// Containment in either direction: the list item name may be a fragment
	// of the catalog name ("חלב 3%" → "חלב 3% תנובה 1 ליטר") or a superset
	// of it.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		  FROM store_products
		  WHERE product_name ILIKE '%' || $1 || '%'
		     OR $1 ILIKE '%' || product_name || '%'
		  LIMIT $2`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("query by name: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *PostgresRepository) ListChains(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT store_chain
		  FROM store_products
		  WHERE store_chain <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	var chains []string
	for rows.Next() {
		var chain string
		if err := rows.Scan(&chain); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		chains = append(chains, chain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chains: %w", err)
	}
	return chains, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			price     sql.NullFloat64
			branchRaw []byte
		)
		if err := rows.Scan(&e.ProductCode, &e.ProductName, &price, &e.StoreChain, &e.StoreID, &branchRaw); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if price.Valid {
			e.Price = price.Float64
		}
		if len(branchRaw) > 0 {
			var branch BranchMapping
			if err := json.Unmarshal(branchRaw, &branch); err == nil {
				e.Branch = &branch
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
