package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier stands in for a mail provider when none is configured: it
// logs each message instead of sending it.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, message Message) error {
	n.logger.Info("mail delivery skipped, no provider configured",
		zap.String("to", message.To),
		zap.String("subject", message.Subject))
	return nil
}
