package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumamart/storefront-backend/pkg/enums"
)

// Order totals satisfy: total = subtotal + shipping_fee - discount_amount.
// All money columns are captured at placement time and never recomputed.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingFee     decimal.Decimal      `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	DiscountAmount  decimal.Decimal      `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	CouponID        *uuid.UUID           `gorm:"column:coupon_id;type:uuid"`
	CouponCode      *string              `gorm:"column:coupon_code"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:text;not null"`
	AddressID       uuid.UUID            `gorm:"column:address_id;type:uuid;not null"`
	ShippingAddress string               `gorm:"column:shipping_address;not null"`
	PointsAwarded   int                  `gorm:"column:points_awarded;not null;default:0"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	User  *Profile    `gorm:"foreignKey:UserID"`
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}
