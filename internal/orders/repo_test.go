package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal NUMERIC NOT NULL,
  shipping_fee NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  coupon_id TEXT,
  coupon_code TEXT,
  delivery_method TEXT NOT NULL,
  address_id TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  points_awarded INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  line_total NUMERIC NOT NULL
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func placedOrder(userID uuid.UUID, status enums.OrderStatus, created time.Time) *models.Order {
	subtotal := decimal.NewFromInt(120)
	shipping := decimal.NewFromInt(50)
	return &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          status,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		DiscountAmount:  decimal.Zero,
		Total:           subtotal.Add(shipping),
		DeliveryMethod:  enums.DeliveryMethodStandard,
		AddressID:       uuid.New(),
		ShippingAddress: "1 Elm St, Austin, TX 73301, US",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestCreateInsertsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := placedOrder(uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	order.Items = []models.OrderItem{
		{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductName: "Oak Shelf",
			UnitPrice:   decimal.NewFromInt(60),
			Quantity:    2,
			LineTotal:   decimal.NewFromInt(120),
		},
	}

	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Oak Shelf", reloaded.Items[0].ProductName)
	assert.Equal(t, order.ID, reloaded.Items[0].OrderID)
}

func TestListByUserExcludesOthers(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := uuid.New()
	theirs := uuid.New()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, placedOrder(mine, enums.OrderStatusPending, now))
	require.NoError(t, err)
	_, err = repo.Create(ctx, placedOrder(theirs, enums.OrderStatusPending, now.Add(time.Second)))
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, mine, pagination.Params{Limit: 50})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, mine, list.Orders[0].UserID)
}

func TestListByStatusesFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := uuid.New()
	now := time.Now().UTC()
	_, err := repo.Create(ctx, placedOrder(user, enums.OrderStatusProcessing, now))
	require.NoError(t, err)
	_, err = repo.Create(ctx, placedOrder(user, enums.OrderStatusShipped, now.Add(time.Second)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, placedOrder(user, enums.OrderStatusDelivered, now.Add(2*time.Second)))
	require.NoError(t, err)

	list, err := repo.ListByStatuses(ctx,
		[]enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusShipped},
		pagination.Params{Limit: 50})
	require.NoError(t, err)

	var mine int
	for _, order := range list.Orders {
		assert.NotEqual(t, enums.OrderStatusDelivered, order.Status)
		if order.UserID == user {
			mine++
		}
	}
	assert.Equal(t, 2, mine)
}

func TestUpdateStatusGuardsCurrentState(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := placedOrder(uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	moved, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.True(t, moved)

	// A second pending->processing attempt loses: the row moved on.
	moved, err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, reloaded.Status)
}

func TestCountByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := uuid.New()
	now := time.Now().UTC()
	_, err := repo.Create(ctx, placedOrder(user, enums.OrderStatusPending, now))
	require.NoError(t, err)

	before, err := repo.CountByStatus(ctx, enums.OrderStatusPending)
	require.NoError(t, err)

	_, err = repo.Create(ctx, placedOrder(user, enums.OrderStatusPending, now.Add(time.Second)))
	require.NoError(t, err)

	after, err := repo.CountByStatus(ctx, enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestSumRevenueExcludesCancelled(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := uuid.New()
	now := time.Now().UTC()

	before, err := repo.SumRevenue(ctx)
	require.NoError(t, err)

	_, err = repo.Create(ctx, placedOrder(user, enums.OrderStatusDelivered, now))
	require.NoError(t, err)
	_, err = repo.Create(ctx, placedOrder(user, enums.OrderStatusCancelled, now.Add(time.Second)))
	require.NoError(t, err)

	after, err := repo.SumRevenue(ctx)
	require.NoError(t, err)

	// Only the delivered order's 170 counts; the cancelled one does not.
	assert.True(t, after.Sub(before).Equal(decimal.NewFromInt(170)),
		"expected revenue delta 170, got %s", after.Sub(before))
}
