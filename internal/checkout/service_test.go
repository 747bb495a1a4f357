package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/internal/cart"
	"github.com/stridewear/storefront-backend/internal/identity"
	"github.com/stridewear/storefront-backend/internal/orders"
	"github.com/stridewear/storefront-backend/pkg/db/models"
	"github.com/stridewear/storefront-backend/pkg/enums"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  discount_price NUMERIC,
  in_stock INTEGER NOT NULL DEFAULT 1,
  gender TEXT NOT NULL DEFAULT 'U',
  category_id TEXT,
  brand_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  session_key TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user ON carts (user_id) WHERE user_id IS NOT NULL;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_session ON carts (session_key) WHERE session_key IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCheckoutService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		TxRunner:  gormTxRunner{db: db},
		CartRepo:  cart.NewRepository(db),
		OrderRepo: orders.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func createCheckoutProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:      uuid.New(),
		Slug:    fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Name:    name,
		Price:   decimal.RequireFromString(price),
		InStock: true,
		Gender:  enums.GenderUnisex,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func fillCart(t *testing.T, db *gorm.DB, owner identity.Owner, lines map[*models.Product]int) uuid.UUID {
	t.Helper()

	repo := cart.NewRepository(db)
	current, err := repo.GetOrCreateByOwner(context.Background(), owner)
	require.NoError(t, err)
	for product, qty := range lines {
		require.NoError(t, repo.AddOrIncrementItem(context.Background(), current.ID, product.ID, qty))
	}
	return current.ID
}

func shippingInput() Input {
	return Input{
		FirstName:  "Iris",
		LastName:   "Vega",
		Email:      "iris@example.com",
		Address:    "12 Harbor Lane",
		City:       "Rotterdam",
		PostalCode: "3011",
		Country:    "NL",
	}
}

func TestCheckoutFreezesPricesAndTotals(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	owner := identity.SessionOwner("sess-" + uuid.NewString())
	jacket := createCheckoutProduct(t, db, "jacket", "100.00")
	tee := createCheckoutProduct(t, db, "tee", "40.00")
	cartID := fillCart(t, db, owner, map[*models.Product]int{jacket: 2, tee: 1})

	view, err := svc.Checkout(context.Background(), owner, shippingInput())
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("240.00")))
	assert.Equal(t, enums.OrderStatusPending, view.Status)
	assert.Nil(t, view.UserID)

	// Raising the catalog price afterwards must not touch the stored order.
	require.NoError(t, db.Model(jacket).Update("price", decimal.RequireFromString("150.00")).Error)
	stored, err := orders.NewRepository(db).FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("240.00")))
	for _, item := range stored.Items {
		if item.ProductID == jacket.ID {
			assert.True(t, item.Price.Equal(decimal.RequireFromString("100.00")))
		}
	}

	// The cart must be empty after a successful checkout.
	count, err := cart.NewRepository(db).CountItems(context.Background(), cartID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCheckoutUsesSalePrice(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	owner := identity.SessionOwner("sess-" + uuid.NewString())
	hoodie := createCheckoutProduct(t, db, "hoodie", "60.00")
	sale := decimal.RequireFromString("45.00")
	require.NoError(t, db.Model(hoodie).Update("discount_price", sale).Error)

	fillCart(t, db, owner, map[*models.Product]int{hoodie: 2})

	view, err := svc.Checkout(context.Background(), owner, shippingInput())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].Price.Equal(sale))
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("90.00")))
}

func TestCheckoutAttachesAuthenticatedUser(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	userID := uuid.New()
	owner := identity.UserOwner(userID)
	hoodie := createCheckoutProduct(t, db, "hoodie", "60.00")
	fillCart(t, db, owner, map[*models.Product]int{hoodie: 1})

	view, err := svc.Checkout(context.Background(), owner, shippingInput())
	require.NoError(t, err)
	require.NotNil(t, view.UserID)
	assert.Equal(t, userID, *view.UserID)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	owner := identity.SessionOwner("sess-" + uuid.NewString())
	_, err := cart.NewRepository(db).GetOrCreateByOwner(context.Background(), owner)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), owner, shippingInput())
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutRejectsMissingCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	_, err := svc.Checkout(context.Background(), identity.SessionOwner("sess-"+uuid.NewString()), shippingInput())
	require.Error(t, err)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, db)

	owner := identity.SessionOwner("sess-" + uuid.NewString())
	hoodie := createCheckoutProduct(t, db, "hoodie", "60.00")
	cartID := fillCart(t, db, owner, map[*models.Product]int{hoodie: 1})

	var ordersBefore int64
	require.NoError(t, db.Model(&models.Order{}).Count(&ordersBefore).Error)

	// Breaking the order_items table mid-flight fails the order insert after
	// the transaction has started; nothing may stick.
	require.NoError(t, db.Exec(`ALTER TABLE order_items RENAME TO order_items_broken`).Error)
	t.Cleanup(func() {
		db.Exec(`ALTER TABLE order_items_broken RENAME TO order_items`)
	})

	_, err := svc.Checkout(context.Background(), owner, shippingInput())
	require.Error(t, err)

	var ordersAfter int64
	require.NoError(t, db.Model(&models.Order{}).Count(&ordersAfter).Error)
	assert.Equal(t, ordersBefore, ordersAfter)

	count, err := cart.NewRepository(db).CountItems(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
