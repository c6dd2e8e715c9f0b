package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []Event
	d.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"})

	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "t-1", seen[0].TicketID)
}

func TestPublishIgnoresUnrelatedEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	called := false
	d.Subscribe(EventTicketReassigned, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var order []string
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, event Event) error {
		order = append(order, "first")
		return errors.New("handler blew up")
	})
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, event Event) error {
		order = append(order, "second")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
