package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventFollowUpScheduled, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		Type:       EventFollowUpScheduled,
		CustomerID: "cust-1",
	})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "cust-1", received[0].CustomerID)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestDispatcherIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventFollowUpCleared, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventCustomerCreated}))
	assert.False(t, called)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	secondCalled := false
	dispatcher.Subscribe(EventFollowUpCompleted, func(context.Context, Event) error {
		return errors.New("first handler failed")
	})
	dispatcher.Subscribe(EventFollowUpCompleted, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventFollowUpCompleted}))
	assert.True(t, secondCalled)
}
