package shoppinglist

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/salsheli/salsheli-backend/pkg/apperr"
)

// Store persists shopping-list items. List deletion cascades to items at the
// schema level (ON DELETE CASCADE), not here.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const itemColumns = `id, list_id, name, COALESCE(product_code, ''), quantity, is_completed, created_at, updated_at`

// CreateItem inserts a new item. Quantity defaults to 1 when unset.
func (s *Store) CreateItem(ctx context.Context, listID uuid.UUID, name, productCode string, quantity int) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, apperr.New(apperr.CodeValidation, "item name is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO shopping_list_items (id, list_id, name, product_code, quantity)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING `+itemColumns, uuid.New(), listID, name, productCode, quantity)

	item, err := scanItem(row)
	if err != nil {
		return Item{}, apperr.Wrap(apperr.CodeDependency, err, "insert list item")
	}
	return item, nil
}

// ListItems returns a list's items in insertion order.
func (s *Store) ListItems(ctx context.Context, listID uuid.UUID) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items
		WHERE list_id = $1
		ORDER BY created_at, id`, listID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list items")
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeDependency, err, "scan list item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "iterate list items")
	}
	return items, nil
}

// ToggleItem flips the checklist state and returns the updated item.
func (s *Store) ToggleItem(ctx context.Context, id uuid.UUID) (Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE shopping_list_items
		SET is_completed = NOT is_completed, updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, apperr.New(apperr.CodeNotFound, "list item not found")
	}
	if err != nil {
		return Item{}, apperr.Wrap(apperr.CodeDependency, err, "toggle list item")
	}
	return item, nil
}

// UpdateQuantity sets a new positive quantity on an item.
func (s *Store) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, apperr.New(apperr.CodeValidation, "quantity must be positive")
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE shopping_list_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns, id, quantity)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, apperr.New(apperr.CodeNotFound, "list item not found")
	}
	if err != nil {
		return Item{}, apperr.Wrap(apperr.CodeDependency, err, "update item quantity")
	}
	return item, nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.CodeDependency, err, "delete list item")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return apperr.New(apperr.CodeNotFound, "list item not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.ListID, &item.Name, &item.ProductCode,
		&item.Quantity, &item.IsCompleted, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
