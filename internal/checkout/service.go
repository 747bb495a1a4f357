package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/internal/cart"
	"github.com/stridewear/storefront-backend/internal/identity"
	"github.com/stridewear/storefront-backend/internal/orders"
	"github.com/stridewear/storefront-backend/pkg/db/models"
	"github.com/stridewear/storefront-backend/pkg/enums"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

// txRunner is the transactional surface checkout needs from the db client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the shipping details collected on the checkout form.
type Input struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Address    string `json:"address" validate:"required,max=250"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

// ServiceParams groups dependencies for the checkout engine.
type ServiceParams struct {
	TxRunner  txRunner
	CartRepo  *cart.Repository
	OrderRepo *orders.Repository
}

// Service converts a cart into an order.
type Service interface {
	Checkout(ctx context.Context, owner identity.Owner, input Input) (orders.View, error)
}

type service struct {
	tx        txRunner
	cartRepo  *cart.Repository
	orderRepo *orders.Repository
}

// NewService builds a checkout engine with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{
		tx:        params.TxRunner,
		cartRepo:  params.CartRepo,
		orderRepo: params.OrderRepo,
	}, nil
}

// Checkout freezes the cart into an order inside one transaction: read the
// cart, snapshot each line at the product's current price, write the order
// and its items, wipe the cart. Any failure rolls the whole thing back so
// the buyer never ends up with an order and a full cart at once.
//
// The order total is the sum of the frozen line totals, so the receipt always
// matches the stored items even if the catalog changes mid-request.
func (s *service) Checkout(ctx context.Context, owner identity.Owner, input Input) (orders.View, error) {
	if !owner.Valid() {
		return orders.View{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		current, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		items, err := cartRepo.ListItems(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order := buildOrder(owner, input)
		total := decimal.Zero
		for _, item := range items {
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeDependency, "cart item lost its product")
			}
			line := models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Price:     item.Product.CurrentPrice(),
				Quantity:  item.Quantity,
			}
			total = total.Add(line.TotalPrice())
			order.Items = append(order.Items, line)
		}
		order.TotalAmount = total

		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := cartRepo.DeleteItemsByCart(ctx, current.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return orders.View{}, err
	}
	return orders.NewView(created), nil
}

func buildOrder(owner identity.Owner, input Input) *models.Order {
	order := &models.Order{
		ID:         uuid.New(),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      strings.TrimSpace(input.Email),
		Address:    strings.TrimSpace(input.Address),
		City:       strings.TrimSpace(input.City),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		Status:     enums.OrderStatusPending,
	}
	if owner.IsUser() {
		order.UserID = owner.UserID
	}
	return order
}
