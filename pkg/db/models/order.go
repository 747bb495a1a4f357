package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stridewear/storefront-backend/pkg/enums"
)

// Order is the immutable checkout snapshot. Only Status changes after
// creation; customer fields and TotalAmount are frozen at checkout time.
// UserID stays nil for guest checkouts.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	FirstName   string            `gorm:"column:first_name;not null"`
	LastName    string            `gorm:"column:last_name;not null"`
	Email       string            `gorm:"column:email;not null"`
	Address     string            `gorm:"column:address;not null"`
	City        string            `gorm:"column:city;not null"`
	PostalCode  string            `gorm:"column:postal_code;not null"`
	Country     string            `gorm:"column:country;not null"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
