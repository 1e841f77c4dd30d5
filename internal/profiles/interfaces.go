package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for profiles and addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) error
	CountCustomers(ctx context.Context) (int64, error)

	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	UpdateAddress(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error
}
