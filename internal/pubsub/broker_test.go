package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	t.Run("subscriber receives published event", func(t *testing.T) {
		broker := NewBroker[string]()
		defer broker.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := broker.Subscribe(ctx)
		broker.Publish(CreatedEvent, "hello")

		select {
		case event := <-ch:
			assert.Equal(t, CreatedEvent, event.Type)
			assert.Equal(t, "hello", event.Payload)
			assert.False(t, event.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	})

	t.Run("all subscribers receive the event", func(t *testing.T) {
		broker := NewBroker[int]()
		defer broker.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch1 := broker.Subscribe(ctx)
		ch2 := broker.Subscribe(ctx)
		require.Equal(t, 2, broker.SubscriberCount())

		broker.Publish(UpdatedEvent, 42)

		for _, ch := range []<-chan Event[int]{ch1, ch2} {
			select {
			case event := <-ch:
				assert.Equal(t, 42, event.Payload)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for event")
			}
		}
	})

	t.Run("publish with full buffer does not block", func(t *testing.T) {
		broker := NewBrokerWithBuffer[int](1)
		defer broker.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		broker.Subscribe(ctx)

		done := make(chan struct{})
		go func() {
			broker.Publish(CreatedEvent, 1)
			broker.Publish(CreatedEvent, 2)
			broker.Publish(CreatedEvent, 3)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on a full subscriber")
		}
	})
}

func TestBrokerCancellation(t *testing.T) {
	t.Run("context cancel closes the channel", func(t *testing.T) {
		broker := NewBroker[string]()
		defer broker.Close()

		ctx, cancel := context.WithCancel(context.Background())
		ch := broker.Subscribe(ctx)
		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel not closed after cancel")
		}

		assert.Eventually(t, func() bool {
			return broker.SubscriberCount() == 0
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("close shuts down all subscribers", func(t *testing.T) {
		broker := NewBroker[string]()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := broker.Subscribe(ctx)
		broker.Close()

		_, ok := <-ch
		assert.False(t, ok)
		assert.Equal(t, 0, broker.SubscriberCount())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		broker := NewBroker[string]()
		broker.Close()
		assert.NotPanics(t, broker.Close)
	})

	t.Run("subscribe after close returns closed channel", func(t *testing.T) {
		broker := NewBroker[string]()
		broker.Close()

		ch := broker.Subscribe(context.Background())
		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("publish after close is a no-op", func(t *testing.T) {
		broker := NewBroker[string]()
		broker.Close()
		assert.NotPanics(t, func() { broker.Publish(CreatedEvent, "late") })
	})
}
