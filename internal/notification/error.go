package notification

import "errors"

var (
	ErrNoOrderIDs = errors.New("notification requires at least one order id")
)
