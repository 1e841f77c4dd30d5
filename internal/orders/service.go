package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumamart/storefront-backend/pkg/db/models"
	"github.com/lumamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
	"github.com/lumamart/storefront-backend/pkg/pagination"
)

// validTransitions is the full lifecycle graph. Terminal states have no
// outgoing edges.
var validTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
}

// riderStatuses is the slice of the lifecycle visible on the rider console.
var riderStatuses = []enums.OrderStatus{
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
}

// Service exposes order history, the admin fulfilment surface and the
// rider delivery queue. Placement lives in the checkout package.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)

	ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*OrderList, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error)

	RiderQueue(ctx context.Context, params pagination.Params) (*OrderList, error)
	RiderAdvance(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// GetForUser loads an order owned by the caller. A foreign order reads as
// not-found so order ids cannot be enumerated.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// Cancel lets a customer back out of an order that has not started
// fulfilment. Anything past pending requires support intervention.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}
	return s.transition(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusCancelled)
}

func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*OrderList, error) {
	var statuses []enums.OrderStatus
	if status != nil {
		statuses = []enums.OrderStatus{*status}
	}
	list, err := s.repo.ListByStatuses(ctx, statuses, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(order.Status, to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %q to %q", order.Status, to))
	}
	return s.transition(ctx, orderID, order.Status, to)
}

func (s *service) RiderQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByStatuses(ctx, riderStatuses, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rider queue")
	}
	return list, nil
}

// RiderAdvance only walks orders forward along the delivery leg; riders
// never cancel.
func (s *service) RiderAdvance(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if to != enums.OrderStatusShipped && to != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("riders cannot move orders to %q", to))
	}
	return s.SetStatus(ctx, orderID, to)
}

func (s *service) transition(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (*models.Order, error) {
	moved, err := s.repo.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !moved {
		// Someone else transitioned the order between our read and write.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is no longer in status %q", from))
	}
	return s.Get(ctx, orderID)
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range validTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
