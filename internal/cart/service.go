package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
)

const maxLineQuantity = 99

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service owns all cart mutations. Every write goes through here so the
// price snapshot rule cannot be bypassed by a caller editing lines
// directly: a line's unit price is captured from the product on add (and
// refreshed on re-add), never recomputed at checkout.
type Service interface {
	Fetch(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*Cart, error)
	UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID string, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type service struct {
	store    Store
	products productLoader
	now      func() time.Time
}

// NewService builds the cart service.
func NewService(store Store, products productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products, now: time.Now}, nil
}

func (s *service) Fetch(ctx context.Context, userID string) (*Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity too large")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.Stock < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product out of stock")
	}

	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	now := s.now().UTC()
	if line := cart.findLine(productID); line != nil {
		if line.Quantity+quantity > maxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity too large")
		}
		line.Quantity += quantity
		// re-adding refreshes the unit price in case it changed
		line.UnitPrice = product.EffectivePrice(now)
	} else {
		var image *string
		if len(product.Images) > 0 {
			image = &product.Images[0]
		}
		cart.Items = append(cart.Items, Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.EffectivePrice(now),
			Quantity:  quantity,
			ImageURL:  image,
			AddedAt:   now,
		})
	}

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity too large")
	}

	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	line := cart.findLine(productID)
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	line.Quantity = quantity

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, userID string, productID uuid.UUID) (*Cart, error) {
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if !cart.removeLine(productID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
