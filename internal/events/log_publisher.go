// Package events holds EventPublisher implementations that need no broker.
package events

import (
	"context"
	"log/slog"

	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
)

// LogPublisher writes events to the log. Used when no kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.logger.InfoContext(ctx, "event published", "topic", topic, "event", event)
	return nil
}

var _ interfaces.EventPublisher = (*LogPublisher)(nil)
