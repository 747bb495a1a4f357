package cart

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/pkg/db/models"
	"github.com/stridewear/storefront-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
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
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  session_key TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user ON carts (user_id) WHERE user_id IS NOT NULL;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_session ON carts (session_key) WHERE session_key IS NOT NULL;`,
	}
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(carts).Error)
	for _, stmt := range cartIndexes {
		require.NoError(t, db.Exec(stmt).Error)
	}
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func mustCreateTestProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
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
