package checkout

import (
	"github.com/google/uuid"

	"github.com/lumamart/storefront-backend/pkg/enums"
)

// PlaceOrderInput captures a checkout request.
type PlaceOrderInput struct {
	AddressID      uuid.UUID
	DeliveryMethod enums.DeliveryMethod
	CouponCode     *string
}
