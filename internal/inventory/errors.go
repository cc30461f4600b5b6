package inventory

import "errors"

var (
	// ErrInvalidAmount means a negative amount was supplied.
	ErrInvalidAmount = errors.New("amount cannot be negative")

	// ErrInsufficientStock means consuming would drive the stock negative.
	// The stock is left unchanged.
	ErrInsufficientStock = errors.New("insufficient fuel stock")

	// ErrStationNotFound means the station id does not exist.
	ErrStationNotFound = errors.New("fuel station not found")
)
