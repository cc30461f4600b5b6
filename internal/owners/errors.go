package owners

import "errors"

var (
	ErrNotFound         = errors.New("owner not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateNIC     = errors.New("NIC already registered")
	ErrEmailNotVerified = errors.New("email not verified")
)
