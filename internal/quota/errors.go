package quota

import "errors"

var (
	// ErrVehicleNotFound means the vehicle key does not map to a registered
	// quota account.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidAmount means the requested debit amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientQuota means the remaining balance does not cover the
	// requested debit. No mutation is performed.
	ErrInsufficientQuota = errors.New("insufficient remaining quota")
)
