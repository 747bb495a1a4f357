package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stridewear/storefront-backend/pkg/enums"
)

// Product is the canonical catalog listing. The cart never copies its price;
// order items freeze it at checkout.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	Name          string           `gorm:"column:name;not null"`
	Description   string           `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2)"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true"`
	Gender        enums.Gender     `gorm:"column:gender;type:text;not null;default:'U'"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	BrandID       uuid.UUID        `gorm:"column:brand_id;type:uuid;not null"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	Brand         *Brand           `gorm:"foreignKey:BrandID"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOnSale reports whether the discount price undercuts the regular price.
func (p Product) IsOnSale() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price)
}

// CurrentPrice returns the price a buyer pays right now.
func (p Product) CurrentPrice() decimal.Decimal {
	if p.IsOnSale() {
		return *p.DiscountPrice
	}
	return p.Price
}
