// Package pubsub is a small generic publish/subscribe broker used to fan
// out application events (database changes, watcher notifications, log
// lines) to interested Bubble Tea components.
package pubsub

import (
	"context"
	"time"
)

// EventType labels what happened to the payload.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
	ChangedEvent EventType = "changed"
	ErrorEvent   EventType = "error"
)

// Event is a timestamped payload delivered to subscribers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels tied to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher delivers typed events to all current subscribers.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
