package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink records events without delivering anywhere. Used when no Telegram
// token is configured, and in tests.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, event Event) error {
	s.logger.Info("Notification event",
		zap.String("kind", string(event.Kind)),
		zap.String("user_id", event.ToUserID.String()),
		zap.String("appointment_id", event.AppointmentID.String()),
		zap.String("message", event.Message()),
	)
	return nil
}

var _ EventSink = (*LogSink)(nil)
