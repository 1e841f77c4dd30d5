package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart. UnitPrice is a snapshot of the
// product's effective price, captured when the line is created and
// refreshed each time the shopper adds the product again.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  *string         `json:"image_url,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// Cart is the full cart document stored per user.
type Cart struct {
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal sums unit_price x quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// TotalQuantity counts every unit across all lines.
func (c *Cart) TotalQuantity() int {
	var count int
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}

func (c *Cart) findLine(productID uuid.UUID) *Line {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) removeLine(productID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}
