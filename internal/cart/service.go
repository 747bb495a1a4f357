package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/internal/catalog"
	"github.com/stridewear/storefront-backend/internal/identity"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	CatalogRepo catalog.ProductReader
}

// Service exposes business rules for cart management. Every method takes the
// resolved owner so an anonymous browser and a logged-in buyer go through the
// same paths.
type Service interface {
	GetCart(ctx context.Context, owner identity.Owner) (View, error)
	AddItem(ctx context.Context, owner identity.Owner, productID uuid.UUID, quantity int) (View, error)
	UpdateItemQuantity(ctx context.Context, owner identity.Owner, itemID uuid.UUID, quantity int) (View, error)
	RemoveItem(ctx context.Context, owner identity.Owner, itemID uuid.UUID) (View, error)
}

type service struct {
	cartRepo    *Repository
	catalogRepo catalog.ProductReader
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// GetCart returns the owner's cart, creating an empty one on first touch.
func (s *service) GetCart(ctx context.Context, owner identity.Owner) (View, error) {
	if !owner.Valid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	cart, err := s.cartRepo.GetOrCreateByOwner(ctx, owner)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.render(ctx, cart.ID)
}

// AddItem puts a product in the cart, accumulating quantity when the product
// is already there. Adding never checks stock; availability is enforced at
// browse time only.
func (s *service) AddItem(ctx context.Context, owner identity.Owner, productID uuid.UUID, quantity int) (View, error) {
	if !owner.Valid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if productID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.catalogRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart, err := s.cartRepo.GetOrCreateByOwner(ctx, owner)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.cartRepo.AddOrIncrementItem(ctx, cart.ID, productID, quantity); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.render(ctx, cart.ID)
}

// UpdateItemQuantity sets the quantity of a cart line. A quantity of zero or
// below removes the line instead, matching the storefront's stepper UI.
func (s *service) UpdateItemQuantity(ctx context.Context, owner identity.Owner, itemID uuid.UUID, quantity int) (View, error) {
	cart, err := s.ownItem(ctx, owner, itemID)
	if err != nil {
		return View{}, err
	}
	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		return s.render(ctx, cart)
	}
	if err := s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.render(ctx, cart)
}

// RemoveItem drops a cart line the owner actually holds.
func (s *service) RemoveItem(ctx context.Context, owner identity.Owner, itemID uuid.UUID) (View, error) {
	cart, err := s.ownItem(ctx, owner, itemID)
	if err != nil {
		return View{}, err
	}
	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.render(ctx, cart)
}

// ownItem verifies the item belongs to the owner's cart. Items in someone
// else's cart are indistinguishable from missing items on purpose.
func (s *service) ownItem(ctx context.Context, owner identity.Owner, itemID uuid.UUID) (uuid.UUID, error) {
	if !owner.Valid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if itemID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	cart, err := s.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if _, err := s.cartRepo.FindItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	return cart.ID, nil
}

func (s *service) render(ctx context.Context, cartID uuid.UUID) (View, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	items, err := s.cartRepo.ListItems(ctx, cartID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}
	return newView(cart, items), nil
}
