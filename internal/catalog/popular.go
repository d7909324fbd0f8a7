package catalog

import (
	"context"
	"fmt"
)

// PopularProduct is a catalog product carried by many chains, used by the
// home screen's "compare these" shelf.
type PopularProduct struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	ChainCount  int     `json:"chain_count"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	AvgPrice    float64 `json:"avg_price"`
}

// PopularProducts returns the products stocked by the most chains, widest
// coverage first. Products carried by a single chain are excluded since
// there is nothing to compare.
func (r *PostgresRepository) PopularProducts(ctx context.Context, limit int) ([]PopularProduct, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			product_code,
			MIN(product_name) AS product_name,
			COUNT(DISTINCT store_chain) AS chain_count,
			MIN(price) AS min_price,
			MAX(price) AS max_price,
			AVG(price) AS avg_price
		FROM store_products
		WHERE product_code <> '' AND price > 0
		GROUP BY product_code
		HAVING COUNT(DISTINCT store_chain) > 1
		ORDER BY COUNT(DISTINCT store_chain) DESC, MIN(price) ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular products: %w", err)
	}
	defer rows.Close()

	var out []PopularProduct
	for rows.Next() {
		var p PopularProduct
		if err := rows.Scan(&p.ProductCode, &p.ProductName, &p.ChainCount, &p.MinPrice, &p.MaxPrice, &p.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan popular product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular products: %w", err)
	}
	return out, nil
}
