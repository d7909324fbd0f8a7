// Package shoppinglist stores the user's shopping-list items.
package shoppinglist

import (
	"time"

	"github.com/google/uuid"
)

// Item is one line of a shopping list. ProductCode is set when the item was
// picked from product search; free-typed items match by name only.
type Item struct {
	ID          uuid.UUID `json:"id"`
	ListID      uuid.UUID `json:"list_id"`
	Name        string    `json:"name"`
	ProductCode string    `json:"product_code,omitempty"`
	Quantity    int       `json:"quantity"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
