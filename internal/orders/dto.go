package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stridewear/storefront-backend/pkg/db/models"
	"github.com/stridewear/storefront-backend/pkg/enums"
)

// ItemView is one frozen order line.
type ItemView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// View is the order as returned to the storefront.
type View struct {
	ID          uuid.UUID         `json:"id"`
	UserID      *uuid.UUID        `json:"user_id,omitempty"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Email       string            `json:"email"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	PostalCode  string            `json:"postal_code"`
	Country     string            `json:"country"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	Items       []ItemView        `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewView maps a persisted order onto the API shape.
func NewView(order *models.Order) View {
	view := View{
		ID:          order.ID,
		UserID:      order.UserID,
		FirstName:   order.FirstName,
		LastName:    order.LastName,
		Email:       order.Email,
		Address:     order.Address,
		City:        order.City,
		PostalCode:  order.PostalCode,
		Country:     order.Country,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Items:       make([]ItemView, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		line := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.TotalPrice(),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ProductSlug = item.Product.Slug
		}
		view.Items = append(view.Items, line)
	}
	return view
}
