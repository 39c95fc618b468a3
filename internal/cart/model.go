package cart

import (
	"hoodies-be/internal/pricing"
	"hoodies-be/internal/product"

	"github.com/shopspring/decimal"
)

// Line is one (product, size) entry. Product is a snapshot taken when the
// line was added; later catalogue edits do not change it.
type Line struct {
	Product  product.Product `json:"product"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) matches(productID int64, size string) bool {
	return l.Product.ID == productID && l.Size == size
}

// View is the read model returned to clients.
type View struct {
	Lines      []Line          `json:"items"`
	TotalItems int             `json:"total_items"`
	Summary    pricing.Summary `json:"summary"`
}
