package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is owned by exactly one of an authenticated user or an anonymous
// browser session. The single-column unique indexes (NULLs excluded) are
// what make GetOrCreate race-safe: two first-time requests for the same
// owner collapse onto one row.
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex:ux_carts_user"`
	SessionKey *string    `gorm:"column:session_key;type:text;uniqueIndex:ux_carts_session"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
