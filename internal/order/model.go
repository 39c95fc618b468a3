package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is a single purchased cart line. One checkout produces one Order
// per line, all sharing the same shipping address.
type Order struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	PricePaid decimal.Decimal `json:"price_paid"`
	Shipping  ShippingAddress `json:"shipping"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`

	Product  *ProductInfo `json:"product,omitempty"`
	Customer *Customer    `json:"customer,omitempty"`
}

// ProductInfo is the catalogue data joined into order listings.
type ProductInfo struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// Customer is the profile data joined into admin order listings.
type Customer struct {
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
}

// NewOrder snapshots the price paid for a line as unit price times quantity.
func NewOrder(userID string, productID int64, size string, quantity int, unitPrice decimal.Decimal, addr ShippingAddress) Order {
	return Order{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
		PricePaid: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Shipping:  addr,
		Status:    StatusPending,
	}
}

type ListOptions struct {
	Status *Status
}

type Stats struct {
	Products      int `json:"products"`
	Orders        int `json:"orders"`
	PendingOrders int `json:"pending_orders"`
}
