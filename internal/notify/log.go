package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. Used in
// development when no SMTP or SMS gateway is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, destination, message string) error {
	slog.Info("notification (log sender)", "destination", destination, "message", message)
	return nil
}
