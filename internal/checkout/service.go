package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/internal/cart"
	"github.com/lumamart/storefront-backend/internal/coupons"
	"github.com/lumamart/storefront-backend/internal/orders"
	"github.com/lumamart/storefront-backend/internal/profiles"
	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/logger"
)

var (
	shippingFees = map[enums.DeliveryMethod]decimal.Decimal{
		enums.DeliveryMethodStandard: decimal.NewFromInt(50),
		enums.DeliveryMethodExpress:  decimal.NewFromInt(100),
	}
	pointsDivisor = decimal.NewFromInt(10)
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	Fetch(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type couponValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*coupons.Quote, error)
}

type orderCounter interface {
	IncOrdersPlaced()
}

// Service turns a cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	carts       cartSource
	quotes      couponValidator
	couponRepo  coupons.Repository
	orderRepo   orders.Repository
	profileRepo profiles.Repository
	tx          txRunner
	metrics     orderCounter
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds the checkout service. metrics may be nil.
func NewService(
	carts cartSource,
	quotes couponValidator,
	couponRepo coupons.Repository,
	orderRepo orders.Repository,
	profileRepo profiles.Repository,
	tx txRunner,
	metrics orderCounter,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil || quotes == nil || couponRepo == nil || orderRepo == nil || profileRepo == nil {
		return nil, fmt.Errorf("checkout dependencies incomplete")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		carts:       carts,
		quotes:      quotes,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		tx:          tx,
		metrics:     metrics,
		logg:        logg,
		now:         time.Now,
	}, nil
}

// PlaceOrder prices the cart and commits the order, the coupon burn and
// the loyalty award in one transaction. The cart is cleared only after
// the commit so a failed checkout never loses the shopper's lines.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	shippingFee, ok := shippingFees[input.DeliveryMethod]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown delivery method %q", input.DeliveryMethod))
	}

	current, err := s.carts.Fetch(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	subtotal := current.Subtotal()

	address, err := s.ownedAddress(ctx, userID, input.AddressID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var coupon *models.Coupon
	if input.CouponCode != nil && *input.CouponCode != "" {
		quote, err := s.quotes.Validate(ctx, *input.CouponCode, subtotal, s.now())
		if err != nil {
			return nil, err
		}
		discount = quote.DiscountAmount
		coupon = quote.Coupon
	}

	total := subtotal.Add(shippingFee).Sub(discount)
	points := loyaltyPoints(total)

	order := &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		DiscountAmount:  discount,
		Total:           total,
		DeliveryMethod:  input.DeliveryMethod,
		AddressID:       address.ID,
		ShippingAddress: formatAddress(address),
		PointsAwarded:   points,
		Items:           snapshotItems(current.Items),
	}
	if coupon != nil {
		id := coupon.ID
		code := coupon.Code
		order.CouponID = &id
		order.CouponCode = &code
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if coupon != nil {
			won, err := s.couponRepo.WithTx(tx).IncrementUsage(ctx, coupon.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
			}
			if !won {
				// The last redemption was claimed between validation and
				// commit. Roll everything back.
				return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
			}
		}
		if points > 0 {
			if err := s.profileRepo.WithTx(tx).AddLoyaltyPoints(ctx, userID, points); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "award loyalty points")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order exists either way; a stale cart is recoverable, a lost
	// order is not.
	if err := s.carts.Clear(ctx, userID.String()); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "clearing cart after checkout", err)
	}
	if s.metrics != nil {
		s.metrics.IncOrdersPlaced()
	}
	return order, nil
}

func (s *service) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.profileRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

// loyaltyPoints awards one point per whole 10 of order total.
func loyaltyPoints(total decimal.Decimal) int {
	if total.IsNegative() {
		return 0
	}
	return int(total.Div(pointsDivisor).Floor().IntPart())
}

func snapshotItems(lines []cart.Line) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		quantity := decimal.NewFromInt(int64(line.Quantity))
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.UnitPrice.Mul(quantity),
		})
	}
	return items
}

func formatAddress(address *models.Address) string {
	out := address.Line1
	if address.Line2 != nil && *address.Line2 != "" {
		out += ", " + *address.Line2
	}
	return fmt.Sprintf("%s, %s, %s %s, %s", out, address.City, address.State, address.PostalCode, address.Country)
}
