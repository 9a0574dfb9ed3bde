package events

import (
	"context"

	"github.com/airtimehq/airtime/internal/logging"
	"github.com/google/uuid"
)

// LogPublisher writes every event to the structured log with a fresh event id.
type LogPublisher struct {
	logger logging.Logger
}

func NewLogPublisher(l logging.Logger) *LogPublisher {
	return &LogPublisher{logger: l.With("module", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, payload any) {
	p.logger.Info(ctx, "event", "event_id", uuid.NewString(), "topic", topic, "payload", payload)
}
