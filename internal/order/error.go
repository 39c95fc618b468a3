package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrNoOrders      = errors.New("no orders to insert")
	ErrUnauthorized  = errors.New("unauthorized")
)
