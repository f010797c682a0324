package providers

import (
	"context"

	"github.com/careslot/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to store events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.StoreEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StoreEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelStoreUpdates is the channel every snapshot write is announced on.
// All contexts of the same deployment share it, which is what lets one tab's
// write trigger another tab's reload.
const EventChannelStoreUpdates = "store:updates"
