package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stridewear/storefront-backend/pkg/db/models"
)

// ItemView is one cart line priced at the catalog's current price. Cart rows
// never store money, so a price drop or sale shows up here immediately.
type ItemView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	OnSale       bool            `json:"on_sale"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	AddedAt      time.Time       `json:"added_at"`
}

// View is the full cart as the storefront renders it.
type View struct {
	ID            uuid.UUID       `json:"id"`
	Items         []ItemView      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func newItemView(item models.CartItem) ItemView {
	view := ItemView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.CreatedAt,
	}
	if item.Product != nil {
		view.ProductName = item.Product.Name
		view.ProductSlug = item.Product.Slug
		view.UnitPrice = item.Product.CurrentPrice()
		view.OnSale = item.Product.IsOnSale()
		view.RegularPrice = item.Product.Price
	}
	view.LineTotal = view.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return view
}

func newView(cart *models.Cart, items []models.CartItem) View {
	view := View{
		ID:          cart.ID,
		Items:       make([]ItemView, 0, len(items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range items {
		itemView := newItemView(item)
		view.Items = append(view.Items, itemView)
		view.TotalQuantity += itemView.Quantity
		view.TotalAmount = view.TotalAmount.Add(itemView.LineTotal)
	}
	return view
}
