package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
)

type orderCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

type productCounter interface {
	CountActiveProducts(ctx context.Context) (int64, error)
}

type customerCounter interface {
	CountCustomers(ctx context.Context) (int64, error)
}

// Summary is the back-office landing snapshot.
type Summary struct {
	TotalOrders    int64           `json:"total_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	ActiveProducts int64           `json:"active_products"`
	TotalCustomers int64           `json:"total_customers"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// Service aggregates back-office counts.
type Service interface {
	Summarize(ctx context.Context) (*Summary, error)
}

type service struct {
	orders    orderCounter
	products  productCounter
	customers customerCounter
}

// NewService builds the dashboard service.
func NewService(orders orderCounter, products productCounter, customers customerCounter) (Service, error) {
	if orders == nil || products == nil || customers == nil {
		return nil, fmt.Errorf("dashboard dependencies incomplete")
	}
	return &service{orders: orders, products: products, customers: customers}, nil
}

// Summarize fans the counts out concurrently; one slow table should not
// serialize the whole dashboard load.
func (s *service) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		count, err := s.orders.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting orders: %w", err)
		}
		summary.TotalOrders = count
		return nil
	})
	group.Go(func() error {
		count, err := s.orders.CountByStatus(ctx, enums.OrderStatusPending)
		if err != nil {
			return fmt.Errorf("counting pending orders: %w", err)
		}
		summary.PendingOrders = count
		return nil
	})
	group.Go(func() error {
		count, err := s.products.CountActiveProducts(ctx)
		if err != nil {
			return fmt.Errorf("counting active products: %w", err)
		}
		summary.ActiveProducts = count
		return nil
	})
	group.Go(func() error {
		count, err := s.customers.CountCustomers(ctx)
		if err != nil {
			return fmt.Errorf("counting customers: %w", err)
		}
		summary.TotalCustomers = count
		return nil
	})
	group.Go(func() error {
		revenue, err := s.orders.SumRevenue(ctx)
		if err != nil {
			return fmt.Errorf("summing revenue: %w", err)
		}
		summary.Revenue = revenue
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard")
	}
	return summary, nil
}
