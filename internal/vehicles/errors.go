package vehicles

import "errors"

var (
	ErrNotFound         = errors.New("vehicle not found")
	ErrDuplicateNumber  = errors.New("vehicle number already registered")
	ErrDuplicateChassis = errors.New("chassis number already registered")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrTypeNotFound     = errors.New("vehicle type not found")
	ErrTypeRequired     = errors.New("vehicle type reference required")
	ErrTypeInUse        = errors.New("vehicle type is referenced by vehicles")
	ErrRegistryRejected = errors.New("vehicle rejected by registry")
	ErrInvalidQuota     = errors.New("weekly quota must be positive")
)
