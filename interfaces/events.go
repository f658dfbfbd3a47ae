package interfaces

import (
	"context"

	"github.com/laundryos/washstack/dto"
)

// EventPublisher fans events out to the message bus for out-of-process
// collaborators (the notification service, the dashboard's realtime feed).
type EventPublisher interface {
	Publish(ctx context.Context, entityId string, eventType string, data any) error
	Close() error
}

// EventListener handles one bus event type on one queue.
type EventListener interface {
	Handle(ctx context.Context, event dto.Event) error
	GetEventType() string
	GetQueueName() string
}
