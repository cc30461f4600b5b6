// Package notify holds the out-of-band delivery collaborators: SMTP email
// for verification codes and an HTTP SMS gateway for dispense receipts.
package notify

import "context"

// Sender delivers a message to a destination (email address or phone
// number). Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}

// Func adapts a function to the Sender interface.
type Func func(ctx context.Context, destination, message string) error

func (f Func) Send(ctx context.Context, destination, message string) error {
	return f(ctx, destination, message)
}
