package otp

import "errors"

var (
	// ErrNotFound means no code has been issued for the (email, purpose)
	// pair, or it was replaced by a newer issuance.
	ErrNotFound = errors.New("no verification code found")

	// ErrExpired means the code's validity window has passed.
	ErrExpired = errors.New("verification code expired")

	// ErrMismatch means the supplied code differs from the issued one.
	ErrMismatch = errors.New("verification code does not match")

	// ErrDeliveryFailed means the out-of-band delivery failed; the issuance
	// was rolled back and no code is left behind.
	ErrDeliveryFailed = errors.New("verification code delivery failed")

	// ErrInvalidPurpose means the purpose string is not recognized.
	ErrInvalidPurpose = errors.New("invalid verification purpose")
)
