package cart

import "errors"

var (
	ErrMissingSession = errors.New("cart session is required")
	ErrNotFound       = errors.New("cart not found in storage")

	ErrStorageUnavailable = errors.New("cart storage unavailable")

	ErrSizeRequired = errors.New("please select a size")
	ErrInvalidSize  = errors.New("size not available for this product")
	ErrOutOfStock   = errors.New("product is out of stock")
)
