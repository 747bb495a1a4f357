package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/pkg/db/models"
)

// listLimit caps catalog reads; the storefront UI never pages deeper.
const listLimit = 60

// ProductReader is the read-only surface cart and checkout consume.
type ProductReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	CategorySlug string
	BrandSlug    string
	Gender       string
	Query        string
}

// Repository wires product read operations. The catalog is an external
// collaborator to the cart subsystem: nothing here mutates products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository tied to the provided GORM DB.
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

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with category and brand for detail pages.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns in-stock products matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Preload("Brand").
		Where("products.in_stock = ?", true)

	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.BrandSlug != "" {
		query = query.
			Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", filter.BrandSlug)
	}
	if filter.Gender != "" {
		query = query.Where("products.gender = ?", filter.Gender)
	}
	if filter.Query != "" {
		// LOWER on both sides keeps the match case-insensitive on Postgres.
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.
			Joins("JOIN brands AS search_brands ON search_brands.id = products.brand_id").
			Where(
				"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(search_brands.name) LIKE ?",
				pattern, pattern, pattern,
			)
	}

	var products []models.Product
	if err := query.
		Order("products.created_at DESC").
		Limit(listLimit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
