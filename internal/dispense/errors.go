package dispense

import "errors"

var (
	// ErrUnknownCredential means the scanned payload could not be resolved
	// to a registered vehicle.
	ErrUnknownCredential = errors.New("credential could not be resolved to a vehicle")

	// ErrMalformedCredential means the payload does not carry a vehicle
	// reference at all.
	ErrMalformedCredential = errors.New("malformed credential payload")
)
