package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	ImageURL    *string         `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasSize reports whether size is one of the product's size labels.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
)

type ListOptions struct {
	InStock bool
	Search  string
	Sort    SortOrder
	Limit   int
}

// Input is the admin-editable part of a product.
type Input struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	ImageURL    *string         `json:"image_url"`
	InStock     bool            `json:"in_stock"`
}

var DefaultSizes = []string{"S", "M", "L", "XL"}
