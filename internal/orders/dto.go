package orders

import "github.com/lumamart/storefront-backend/pkg/db/models"

// OrderList wraps an order page plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
