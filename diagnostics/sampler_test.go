package diagnostics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrownet/burrow/eventbus"
	"github.com/burrownet/burrow/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampler_Setup(t *testing.T) {
	s := &Sampler{Bus: eventbus.New(discardLogger()), Logger: discardLogger()}
	require.NoError(t, s.Setup())
	assert.Equal(t, 10*time.Second, s.Interval)
	assert.NotNil(t, s.proc)
	s.Teardown()
	assert.Nil(t, s.proc)
}

func TestSampler_PublishesSamples(t *testing.T) {
	bus := eventbus.New(discardLogger())
	defer bus.Close()

	got := make(chan StatsSample, 16)
	eventbus.Subscribe(bus, func(_ context.Context, e StatsSample) {
		got <- e
	})

	s := &Sampler{
		Bus:      bus,
		Interval: 10 * time.Millisecond,
		Logger:   discardLogger(),
	}
	w := worker.New(s, worker.TestOptions(nil)...)

	var stop worker.Flag
	require.NoError(t, w.Start(&stop, nil))

	select {
	case sample := <-got:
		assert.Positive(t, sample.Goroutines)
		assert.False(t, sample.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no sample published")
	}

	stop.Set()
	w.Stop()
}
