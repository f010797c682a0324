package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/domain/providers"
)

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryEventBus()
	defer bus.Close()

	eventChan, err := bus.Subscribe(ctx, providers.EventChannelStoreUpdates)
	require.NoError(t, err)

	event := entities.NewStoreEvent("origin-1", providers.SnapshotKeyDoctors, entities.StoreEventDoctorsUpdated)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelStoreUpdates, event))

	select {
	case got := <-eventChan:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, entities.StoreEventDoctorsUpdated, got.EventType)
		assert.Equal(t, "origin-1", got.Origin)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestMemoryEventBus_FanOut(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryEventBus()
	defer bus.Close()

	first, err := bus.Subscribe(ctx, providers.EventChannelStoreUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelStoreUpdates)
	require.NoError(t, err)

	event := entities.NewStoreEvent("origin-1", providers.SnapshotKeyAppointments, entities.StoreEventAppointmentsUpdated)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelStoreUpdates, event))

	for _, ch := range []<-chan *entities.StoreEvent{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, event.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out")
		}
	}
}

func TestMemoryEventBus_ChannelIsolation(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryEventBus()
	defer bus.Close()

	other, err := bus.Subscribe(ctx, "other:channel")
	require.NoError(t, err)

	event := entities.NewStoreEvent("origin-1", providers.SnapshotKeyDoctors, entities.StoreEventDoctorsUpdated)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelStoreUpdates, event))

	select {
	case got := <-other:
		t.Fatalf("unexpected event on other channel: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryEventBus_ContextCancelUnsubscribes(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	subCtx, cancel := context.WithCancel(context.Background())
	eventChan, err := bus.Subscribe(subCtx, providers.EventChannelStoreUpdates)
	require.NoError(t, err)

	cancel()

	// The subscriber channel closes once the cancellation is observed
	require.Eventually(t, func() bool {
		select {
		case _, open := <-eventChan:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryEventBus_Close(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryEventBus()

	eventChan, err := bus.Subscribe(ctx, providers.EventChannelStoreUpdates)
	require.NoError(t, err)

	require.NoError(t, bus.Close())

	_, open := <-eventChan
	assert.False(t, open)

	// Publishing after close is a no-op
	event := entities.NewStoreEvent("origin-1", providers.SnapshotKeyDoctors, entities.StoreEventDoctorsUpdated)
	assert.NoError(t, bus.Publish(ctx, providers.EventChannelStoreUpdates, event))
	assert.NoError(t, bus.Close())
}
