package distribution

import "errors"

var (
	// ErrNotFound means the distribution id does not exist.
	ErrNotFound = errors.New("distribution not found")

	// ErrStationNotFound means the target station does not exist.
	ErrStationNotFound = errors.New("fuel station not found")

	// ErrInvalidAmount means the shipment amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidTransition means the requested status change is not allowed
	// by the transition table (including any move out of a terminal state).
	ErrInvalidTransition = errors.New("invalid status transition")
)
