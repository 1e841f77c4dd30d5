package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

type stubRepo struct {
	coupons map[string]*models.Coupon
	created *models.Coupon
}

func newStubRepo(coupons ...*models.Coupon) *stubRepo {
	byCode := make(map[string]*models.Coupon, len(coupons))
	for _, c := range coupons {
		byCode[c.Code] = c
	}
	return &stubRepo{coupons: byCode}
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	s.created = coupon
	return coupon, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Coupon, error) {
	for _, c := range s.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	if c, ok := s.coupons[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(context.Context, pagination.Params) (*CouponList, error) {
	return &CouponList{}, nil
}

func (s *stubRepo) Update(context.Context, uuid.UUID, map[string]any) error { return nil }
func (s *stubRepo) Delete(context.Context, uuid.UUID) error                { return nil }
func (s *stubRepo) IncrementUsage(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

func money(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func percentCoupon(code string, value string) *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: money(value),
		IsActive:      true,
	}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, want, typed.Code())
}

func TestValidateUnknownCode(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "NOPE", money("100"), time.Now())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestValidateInactiveCouponLooksUnknown(t *testing.T) {
	coupon := percentCoupon("HIDDEN", "10")
	coupon.IsActive = false
	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "hidden", money("100"), time.Now())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestValidateNotYetActive(t *testing.T) {
	now := time.Now()
	starts := now.Add(time.Hour)
	coupon := percentCoupon("SOON", "10")
	coupon.StartsAt = &starts

	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "SOON", money("100"), now)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	assert.Contains(t, err.Error(), "not active yet")
}

func TestValidateExpiredWinsOverBelowMinimum(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	coupon := percentCoupon("OLD", "10")
	coupon.ExpiresAt = &expired
	coupon.MinOrderAmount = money("500")

	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	// subtotal is also below minimum; expiry must be reported first
	_, err = svc.Validate(context.Background(), "OLD", money("100"), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateUsageExhausted(t *testing.T) {
	limit := 5
	coupon := percentCoupon("POPULAR", "10")
	coupon.UsageLimit = &limit
	coupon.UsedCount = 5

	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "POPULAR", money("100"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage limit")
}

func TestValidateBelowMinimumNamesAmount(t *testing.T) {
	coupon := percentCoupon("BIG", "10")
	coupon.MinOrderAmount = money("50")

	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "BIG", money("40"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "50.00")
}

func TestValidatePercentageDiscount(t *testing.T) {
	coupon := percentCoupon("SAVE10", "10")
	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	quote, err := svc.Validate(context.Background(), "save10", money("120.00"), time.Now())
	require.NoError(t, err)
	assert.True(t, quote.DiscountAmount.Equal(money("12.00")),
		"expected 12.00 got %s", quote.DiscountAmount)
}

func TestValidatePercentageClampedByMax(t *testing.T) {
	coupon := percentCoupon("SAVE50", "50")
	coupon.MaxDiscountAmount = decimal.NewNullDecimal(money("30"))

	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	quote, err := svc.Validate(context.Background(), "SAVE50", money("200"), time.Now())
	require.NoError(t, err)
	assert.True(t, quote.DiscountAmount.Equal(money("30")),
		"expected clamp at 30 got %s", quote.DiscountAmount)
}

func TestFixedDiscountExceedsSubtotal(t *testing.T) {
	coupon := &models.Coupon{
		ID:            uuid.New(),
		Code:          "FLAT80",
		DiscountType:  enums.DiscountTypeFixedAmount,
		DiscountValue: money("80"),
		IsActive:      true,
	}
	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	// fixed amounts are applied as-is even when larger than the subtotal;
	// the checkout math owns what that means for the final total
	quote, err := svc.Validate(context.Background(), "FLAT80", money("60"), time.Now())
	require.NoError(t, err)
	assert.True(t, quote.DiscountAmount.Equal(money("80")))
}

func TestValidateIsPureRecomputation(t *testing.T) {
	coupon := percentCoupon("SAME", "25")
	svc, err := NewService(newStubRepo(coupon))
	require.NoError(t, err)

	now := time.Now()
	first, err := svc.Validate(context.Background(), "SAME", money("88.44"), now)
	require.NoError(t, err)
	second, err := svc.Validate(context.Background(), "SAME", money("88.44"), now)
	require.NoError(t, err)

	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.Equal(t, 0, coupon.UsedCount, "validation must not consume usage")
}

func TestCreateUppercasesCode(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateInput{
		Code:          "  spring24 ",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: money("15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING24", created.Code)
	assert.True(t, created.IsActive)
}

func TestCreateRejectsNonPositiveValue(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		Code:          "ZERO",
		DiscountType:  enums.DiscountTypeFixedAmount,
		DiscountValue: decimal.Zero,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}
