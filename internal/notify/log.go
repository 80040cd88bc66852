package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of sending them. It is meant
// for development, where the links can be copied from the output.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With("component", "log_sender")}
}

// Deliver implements Sender.
func (s *LogSender) Deliver(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification",
		"to", msg.To,
		"kind", msg.Kind,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}
