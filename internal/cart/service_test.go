package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/internal/catalog"
	"github.com/stridewear/storefront-backend/internal/identity"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(db),
		CatalogRepo: catalog.NewRepository(db),
	})
	require.NoError(t, err)
	return svc, db
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceGetCart_createsEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.GetCart(context.Background(), identity.SessionOwner("sess-"+uuid.NewString()))
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalQuantity)
	assert.True(t, view.TotalAmount.IsZero())
}

func TestServiceAddItem_accumulatesAndTotals(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")

	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.TotalQuantity)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("99.80")))

	view, err = svc.AddItem(context.Background(), owner, hoodie.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("149.70")))
}

func TestServiceAddItem_unknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), identity.SessionOwner("sess-"+uuid.NewString()), uuid.New(), 1)
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAddItem_rejectsBadQuantity(t *testing.T) {
	svc, db := newTestService(t)
	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")

	_, err := svc.AddItem(context.Background(), identity.SessionOwner("sess-"+uuid.NewString()), hoodie.ID, 0)
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceTotalsFollowSalePrice(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "50.00")
	_, err := svc.AddItem(context.Background(), owner, hoodie.ID, 2)
	require.NoError(t, err)

	// Price drop after the item is in the cart must flow into totals.
	sale := decimal.RequireFromString("40.00")
	require.NoError(t, db.Model(hoodie).Update("discount_price", sale).Error)

	view, err := svc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].OnSale)
	assert.True(t, view.Items[0].UnitPrice.Equal(sale))
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("80.00")))
}

func TestServiceUpdateItemQuantity(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")
	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 1)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(context.Background(), owner, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)
}

func TestServiceUpdateItemQuantity_zeroDeletes(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")
	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 2)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(context.Background(), owner, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestServiceUpdateItemQuantity_negativeDeletes(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")
	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 2)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(context.Background(), owner, itemID, -1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestServiceRemoveItem(t *testing.T) {
	svc, db := newTestService(t)
	owner := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")
	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 1)
	require.NoError(t, err)

	view, err = svc.RemoveItem(context.Background(), owner, view.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestServiceRemoveItem_foreignItemLooksMissing(t *testing.T) {
	svc, db := newTestService(t)

	owner := identity.SessionOwner("sess-" + uuid.NewString())
	stranger := identity.SessionOwner("sess-" + uuid.NewString())

	hoodie := mustCreateTestProduct(t, db, "hoodie", "49.90")
	view, err := svc.AddItem(context.Background(), owner, hoodie.ID, 1)
	require.NoError(t, err)

	// The stranger needs a cart of their own before the ownership check runs.
	_, err = svc.GetCart(context.Background(), stranger)
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), stranger, view.Items[0].ID)
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
