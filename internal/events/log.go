package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log. It stands in for the bus when
// Kafka is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evt Event) error {
	p.logger.Info("event published",
		zap.String("event", evt.Name),
		zap.String("key", evt.Key),
		zap.Time("occurred_at", evt.OccurredAt),
		zap.Any("payload", evt.Payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
