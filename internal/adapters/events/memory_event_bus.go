package events

import (
	"context"
	"sync"

	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/domain/providers"
)

// MemoryEventBus implements the EventBus interface in-process. It carries
// change notifications between views of a single process (admin and patient
// surfaces sharing one store) and backs tests.
type MemoryEventBus struct {
	subscribers map[string]map[chan *entities.StoreEvent]struct{}
	mu          sync.RWMutex
	closed      bool
}

// NewMemoryEventBus creates a new in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.StoreEvent]struct{}),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.StoreEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			// Subscriber channel full, skip event
		}
	}
	return nil
}

// Subscribe subscribes to events on a channel
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.StoreEvent, error) {
	b.mu.Lock()
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.StoreEvent]struct{})
	}
	eventChan := make(chan *entities.StoreEvent, 100)
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, eventChan chan *entities.StoreEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe unsubscribes from a channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}
