package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/pkg/enums"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	OrderRepo *Repository
}

// Service exposes order retrieval and the ops status update. Order creation
// lives in the checkout engine, not here.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (View, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]View, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (View, error)
}

type service struct {
	orderRepo *Repository
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{orderRepo: params.OrderRepo}, nil
}

// GetOrder loads a single order with its frozen lines.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (View, error) {
	if orderID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewView(order), nil
}

// ListUserOrders returns the authenticated buyer's order history.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	list, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	views := make([]View, 0, len(list))
	for i := range list {
		views = append(views, NewView(&list[i]))
	}
	return views, nil
}

// UpdateStatus sets the lifecycle status. Only the value is validated; any
// known status may follow any other, ops tooling is trusted to sequence them.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (View, error) {
	if orderID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	next := enums.OrderStatus(status)
	if !next.IsValid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status})
	}

	affected, err := s.orderRepo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.GetOrder(ctx, orderID)
}
