package eventbus

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	Seq int
}

func (pingEvent) EventName() string { return "Ping" }

type otherEvent struct{}

func (otherEvent) EventName() string { return "Other" }

func testBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := testBus()
	defer bus.Close()

	got := make(chan pingEvent, 1)
	sub := Subscribe(bus, func(_ context.Context, e pingEvent) {
		got <- e
	})
	require.NotNil(t, sub)

	Publish(context.Background(), bus, pingEvent{Seq: 7})

	select {
	case e := <-got:
		assert.Equal(t, 7, e.Seq)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_RoutesByType(t *testing.T) {
	bus := testBus()
	defer bus.Close()

	var pings, others atomic.Int32
	Subscribe(bus, func(_ context.Context, _ pingEvent) { pings.Add(1) })
	Subscribe(bus, func(_ context.Context, _ otherEvent) { others.Add(1) })

	Publish(context.Background(), bus, pingEvent{})
	Publish(context.Background(), bus, pingEvent{})
	Publish(context.Background(), bus, otherEvent{})

	assert.Eventually(t, func() bool {
		return pings.Load() == 2 && others.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBus_HandlerPanicDoesNotAffectPeers(t *testing.T) {
	bus := testBus()
	defer bus.Close()

	var delivered atomic.Int32
	Subscribe(bus, func(_ context.Context, _ pingEvent) { panic("handler bug") })
	Subscribe(bus, func(_ context.Context, _ pingEvent) { delivered.Add(1) })

	Publish(context.Background(), bus, pingEvent{})
	Publish(context.Background(), bus, pingEvent{})

	assert.Eventually(t, func() bool {
		return delivered.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := testBus()
	defer bus.Close()

	var count atomic.Int32
	sub := Subscribe(bus, func(_ context.Context, _ pingEvent) { count.Add(1) })

	Publish(context.Background(), bus, pingEvent{})
	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)

	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	Publish(context.Background(), bus, pingEvent{})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestBus_CloseDrains(t *testing.T) {
	bus := testBus()

	var count atomic.Int32
	Subscribe(bus, func(_ context.Context, _ pingEvent) {
		time.Sleep(time.Millisecond)
		count.Add(1)
	})

	for i := 0; i < 10; i++ {
		Publish(context.Background(), bus, pingEvent{Seq: i})
	}

	bus.Close()
	assert.Equal(t, int32(10), count.Load())

	// Closed bus: publish is a no-op, subscribe returns nil.
	Publish(context.Background(), bus, pingEvent{})
	assert.Nil(t, Subscribe(bus, func(_ context.Context, _ pingEvent) {}))
	bus.Close() // idempotent
}
