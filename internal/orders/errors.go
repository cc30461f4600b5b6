package orders

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidAmount   = errors.New("order amount must be positive")
	ErrInvalidDate     = errors.New("order date must be YYYY-MM-DD")
	ErrStationNotFound = errors.New("fuel station not found")
)
