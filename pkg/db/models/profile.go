package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumamart/storefront-backend/pkg/enums"
)

// Profile represents the canonical identity entity.
type Profile struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	FullName      *string    `gorm:"column:full_name"`
	AvatarURL     *string    `gorm:"column:avatar_url"`
	Phone         *string    `gorm:"column:phone"`
	Role          enums.Role `gorm:"column:role;type:text;not null;default:'customer'"`
	LoyaltyPoints int        `gorm:"column:loyalty_points;not null;default:0"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
