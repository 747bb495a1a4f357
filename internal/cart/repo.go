package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/internal/identity"
	"github.com/stridewear/storefront-backend/pkg/db"
	"github.com/stridewear/storefront-backend/pkg/db/models"
)

// Repository encapsulates cart and cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByOwner loads the owner's cart without items.
func (r *Repository) FindByOwner(ctx context.Context, owner identity.Owner) (*models.Cart, error) {
	query := r.db.WithContext(ctx)
	if owner.IsUser() {
		query = query.Where("user_id = ?", *owner.UserID)
	} else {
		query = query.Where("session_key = ?", *owner.SessionKey)
	}

	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByID loads a cart by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateByOwner returns the owner's cart, creating one when none exists.
// Two concurrent first requests for the same owner both miss the lookup and
// both insert; the partial unique index rejects the loser, which then reads
// the winner's row. No advisory locks needed.
func (r *Repository) GetOrCreateByOwner(ctx context.Context, owner identity.Owner) (*models.Cart, error) {
	cart, err := r.FindByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return r.createOrRecover(ctx, owner)
}

// createOrRecover inserts a cart for the owner. When a concurrent request won
// the insert race the unique index rejects ours, so we read the winner's row.
func (r *Repository) createOrRecover(ctx context.Context, owner identity.Owner) (*models.Cart, error) {
	fresh := &models.Cart{
		ID:         uuid.New(),
		UserID:     owner.UserID,
		SessionKey: owner.SessionKey,
	}
	createErr := r.db.WithContext(ctx).Create(fresh).Error
	if createErr == nil {
		return fresh, nil
	}
	if db.IsUniqueViolation(createErr, "") {
		return r.FindByOwner(ctx, owner)
	}
	return nil, createErr
}

// ListItems returns the cart's items with products preloaded, oldest first so
// the cart page renders in the order things were added.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem loads a single cart item by id, scoped to the cart so one owner
// cannot touch another owner's rows.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddOrIncrementItem bumps the quantity of an existing (cart, product) row or
// inserts a fresh one. The UPDATE-first shape keeps the common repeat-add path
// to a single statement; the insert falls back to another UPDATE when a
// concurrent insert wins the unique constraint race.
func (r *Repository) AddOrIncrementItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	affected, err := r.bumpQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	return r.insertOrBump(ctx, cartID, productID, quantity)
}

func (r *Repository) bumpQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Exec(
			`UPDATE cart_items SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE cart_id = ? AND product_id = ?`,
			quantity, cartID, productID,
		)
	return res.RowsAffected, res.Error
}

// insertOrBump inserts a fresh line. When a concurrent insert won the unique
// constraint race it falls back to bumping the winner's quantity instead.
func (r *Repository) insertOrBump(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	createErr := r.db.WithContext(ctx).Create(item).Error
	if createErr == nil {
		return nil
	}
	if db.IsUniqueViolation(createErr, "") {
		_, err := r.bumpQuantity(ctx, cartID, productID, quantity)
		return err
	}
	return createErr
}

// UpdateItemQuantity overwrites the quantity of a cart item.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).
		Error
}

// DeleteItem removes a single cart item.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).
		Error
}

// DeleteItemsByCart clears every item from the cart. Checkout calls this
// inside its transaction so the cart empties atomically with order creation.
func (r *Repository) DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).
		Error
}

// CountItems returns the number of distinct item rows in the cart.
func (r *Repository) CountItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
