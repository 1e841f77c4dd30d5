package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/pkg/enums"
)

// Coupon codes are stored uppercase; lookups normalize before querying.
type Coupon struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string              `gorm:"column:code;not null;uniqueIndex"`
	Description       *string             `gorm:"column:description"`
	DiscountType      enums.DiscountType  `gorm:"column:discount_type;type:text;not null"`
	DiscountValue     decimal.Decimal     `gorm:"column:discount_value;type:numeric(10,2);not null"`
	MinOrderAmount    decimal.Decimal     `gorm:"column:min_order_amount;type:numeric(10,2);not null;default:0"`
	MaxDiscountAmount decimal.NullDecimal `gorm:"column:max_discount_amount;type:numeric(10,2)"`
	UsageLimit        *int                `gorm:"column:usage_limit"`
	UsedCount         int                 `gorm:"column:used_count;not null;default:0"`
	IsActive          bool                `gorm:"column:is_active;not null;default:true"`
	StartsAt          *time.Time          `gorm:"column:starts_at"`
	ExpiresAt         *time.Time          `gorm:"column:expires_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
