// Package event publishes registry events on a message channel.
package event

import (
	"context"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/pkg/messaging"
	"go.uber.org/zap"
)

// Publisher wraps events in a messaging.Envelope and sends them to one channel.
type Publisher struct {
	publisher messaging.Publisher
	channel   string
	logger    *zap.Logger
	now       func() time.Time
}

// NewPublisher creates an event publisher on channel.
func NewPublisher(publisher messaging.Publisher, channel string, logger *zap.Logger) service.EventPublisher {
	return &Publisher{
		publisher: publisher,
		channel:   channel,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *Publisher) PublishEvent(ctx context.Context, eventType string, data interface{}) error {
	envelope := messaging.Envelope{
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	if err := p.publisher.Publish(ctx, p.channel, envelope); err != nil {
		p.logger.Warn("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("channel", p.channel),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Event published",
		zap.String("event_type", eventType),
		zap.String("channel", p.channel))
	return nil
}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() service.EventPublisher {
	return &Publisher{
		publisher: messaging.NopPublisher{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
}
