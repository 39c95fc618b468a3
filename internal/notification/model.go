package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced describes one checkout for the admin notification.
type OrderPlaced struct {
	OrderIDs      []int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	State         string
	PostalCode    string
	Country       string
	Items         []Item
	TotalAmount   decimal.Decimal
	OrderDate     time.Time
}

// Item is one ordered line. Price is the amount paid for the line.
type Item struct {
	ProductName string
	Size        string
	Quantity    int
	Price       decimal.Decimal
}
