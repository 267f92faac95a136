package worker

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// FuncRunner is a Runner assembled from functions, with call counters.
// Nil functions default to: Setup nil error, Tick true, Teardown no-op,
// StopImminent no-op. It always implements StopNotifier, so the counters
// observe the graceful phase even without a StopImminentFunc.
type FuncRunner struct {
	RunnerName       string
	SetupFunc        func() error
	TickFunc         func() bool
	TeardownFunc     func()
	StopImminentFunc func()

	SetupCalls        atomic.Int32
	TickCalls         atomic.Int32
	TeardownCalls     atomic.Int32
	StopImminentCalls atomic.Int32
}

// Name returns the configured name, or "func-runner".
func (r *FuncRunner) Name() string {
	if r.RunnerName != "" {
		return r.RunnerName
	}
	return "func-runner"
}

// Setup counts the call and delegates to SetupFunc.
func (r *FuncRunner) Setup() error {
	r.SetupCalls.Add(1)
	if r.SetupFunc != nil {
		return r.SetupFunc()
	}
	return nil
}

// Tick counts the call and delegates to TickFunc.
func (r *FuncRunner) Tick() bool {
	r.TickCalls.Add(1)
	if r.TickFunc != nil {
		return r.TickFunc()
	}
	return true
}

// Teardown counts the call and delegates to TeardownFunc.
func (r *FuncRunner) Teardown() {
	r.TeardownCalls.Add(1)
	if r.TeardownFunc != nil {
		r.TeardownFunc()
	}
}

// StopImminent counts the call and delegates to StopImminentFunc.
func (r *FuncRunner) StopImminent() {
	r.StopImminentCalls.Add(1)
	if r.StopImminentFunc != nil {
		r.StopImminentFunc()
	}
}

// MockRunner is a testify mock implementing Runner.
// Use NewMockRunner for a pre-configured instance.
type MockRunner struct {
	mock.Mock
}

// NewMockRunner creates a MockRunner with default expectations:
// Name returns "mock-runner", Setup nil, Tick true, Teardown no-op.
func NewMockRunner() *MockRunner {
	m := &MockRunner{}
	m.On("Name").Return("mock-runner")
	m.On("Setup").Return(nil)
	m.On("Tick").Return(true)
	m.On("Teardown").Return()
	return m
}

// Name returns the mocked name.
func (m *MockRunner) Name() string {
	args := m.Called()
	return args.String(0)
}

// Setup records the call and returns the mocked error.
func (m *MockRunner) Setup() error {
	args := m.Called()
	return args.Error(0)
}

// Tick records the call and returns the mocked keep-running value.
func (m *MockRunner) Tick() bool {
	args := m.Called()
	return args.Bool(0)
}

// Teardown records the call.
func (m *MockRunner) Teardown() {
	m.Called()
}

// TestOptions returns options tuned for tests: a short tick interval and a
// discard logger, unless logger is non-nil.
func TestOptions(logger *slog.Logger) []Option {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return []Option{
		WithTickInterval(5 * time.Millisecond),
		WithLogger(logger),
	}
}

// RequireStoppedWithin fails the test unless the worker's stopped event
// sets within d.
func RequireStoppedWithin(tb testing.TB, w *Worker, d time.Duration) {
	tb.Helper()
	if !w.Stopped().WaitTimeout(d) {
		tb.Fatalf("worker %q did not stop within %v", w.Name(), d)
	}
}
