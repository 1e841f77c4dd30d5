package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. FlashPrice, when the flash sale
// window is open, replaces Price at cart-add time; the regular Price is
// never mutated by a sale.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Slug           string              `gorm:"column:slug;not null;uniqueIndex:idx_products_slug"`
	Description    *string             `gorm:"column:description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	CompareAtPrice decimal.NullDecimal `gorm:"column:compare_at_price;type:numeric(10,2)"`
	Stock          int                 `gorm:"column:stock;not null;default:0"`
	CategoryID     *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	Images         pq.StringArray      `gorm:"column:images;type:text[]"`
	IsActive       bool                `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool                `gorm:"column:is_featured;not null;default:false"`
	IsFlashSale    bool                `gorm:"column:is_flash_sale;not null;default:false"`
	FlashPrice     decimal.NullDecimal `gorm:"column:flash_price;type:numeric(10,2)"`
	FlashEndsAt    *time.Time          `gorm:"column:flash_ends_at"`
	AverageRating  decimal.Decimal     `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	ReviewCount    int                 `gorm:"column:review_count;not null;default:0"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// EffectivePrice returns the price a new cart line should be frozen at.
func (p *Product) EffectivePrice(now time.Time) decimal.Decimal {
	if p.IsFlashSale && p.FlashPrice.Valid {
		if p.FlashEndsAt == nil || now.Before(*p.FlashEndsAt) {
			return p.FlashPrice.Decimal
		}
	}
	return p.Price
}
