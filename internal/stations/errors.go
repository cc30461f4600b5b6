package stations

import "errors"

var (
	ErrNotFound           = errors.New("fuel station not found")
	ErrDuplicateContact   = errors.New("contact number already registered")
	ErrInvalidCredentials = errors.New("invalid station credentials")
	ErrInactive           = errors.New("fuel station is not active")
)
