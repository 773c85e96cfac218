package sse_test

import (
	"context"
	"specimenpro/internal/kafka"
	"specimenpro/internal/sse"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan kafka.Notification) (kafka.Notification, bool) {
	t.Helper()
	select {
	case n, ok := <-ch:
		return n, ok
	case <-time.After(100 * time.Millisecond):
		return kafka.Notification{}, false
	}
}

func TestBrokerRoutesByEvent(t *testing.T) {
	b := sse.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	one := b.Subscribe(ctx, "event-1")
	two := b.Subscribe(ctx, "event-2")
	all := b.Subscribe(ctx, "")

	b.Emit(kafka.Notification{Type: kafka.TypeBatchGenerated, EventID: "event-1", Written: 3})

	n, ok := receive(t, one)
	require.True(t, ok)
	assert.Equal(t, 3, n.Written)

	_, ok = receive(t, all)
	assert.True(t, ok)

	_, ok = receive(t, two)
	assert.False(t, ok, "other events should not receive the notification")
}

func TestBrokerBroadcastsDocumentSaved(t *testing.T) {
	b := sse.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	one := b.Subscribe(ctx, "event-1")
	b.Emit(kafka.Notification{Type: kafka.TypeDocumentSaved, Events: 2})

	n, ok := receive(t, one)
	require.True(t, ok)
	assert.Equal(t, kafka.TypeDocumentSaved, n.Type)
}

func TestBrokerRemovesClientOnCancel(t *testing.T) {
	b := sse.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, "event-1")
	assert.Equal(t, 1, b.ClientCount("event-1"))

	cancel()
	assert.Eventually(t, func() bool { return b.ClientCount("event-1") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}
