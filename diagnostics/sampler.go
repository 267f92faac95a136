package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/burrownet/burrow/eventbus"
)

// StatsSample is one process health observation.
type StatsSample struct {
	CPUPercent float64
	RSSBytes   uint64
	Goroutines int
	At         time.Time
}

// EventName implements eventbus.Event.
func (StatsSample) EventName() string { return "StatsSample" }

// Sampler periodically samples the current process and publishes a
// StatsSample per interval. It implements worker.Runner.
type Sampler struct {
	// Bus receives StatsSample events. Required.
	Bus *eventbus.Bus

	// Interval between samples. Default: 10 seconds.
	Interval time.Duration

	// Logger records sampling failures. Default: slog.Default().
	Logger *slog.Logger

	proc       *process.Process
	lastSample time.Time
}

// Name implements worker.Runner.
func (s *Sampler) Name() string { return "diagnostics-sampler" }

// Setup resolves a handle to the current process.
func (s *Sampler) Setup() error {
	if s.Interval <= 0 {
		s.Interval = 10 * time.Second
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("diagnostics: resolve own process: %w", err)
	}
	s.proc = proc
	s.lastSample = time.Time{}
	return nil
}

// Tick samples when the interval has elapsed. A failed sample is logged
// and retried next interval.
func (s *Sampler) Tick() bool {
	if !s.lastSample.IsZero() && time.Since(s.lastSample) < s.Interval {
		return true
	}
	s.lastSample = time.Now()

	sample, err := s.sample()
	if err != nil {
		s.Logger.Warn("process sample failed", slog.Any("error", err))
		return true
	}
	eventbus.Publish(context.Background(), s.Bus, sample)
	return true
}

// Teardown drops the process handle.
func (s *Sampler) Teardown() {
	s.proc = nil
}

func (s *Sampler) sample() (StatsSample, error) {
	cpu, err := s.proc.CPUPercent()
	if err != nil {
		return StatsSample{}, fmt.Errorf("cpu percent: %w", err)
	}
	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return StatsSample{}, fmt.Errorf("memory info: %w", err)
	}
	return StatsSample{
		CPUPercent: cpu,
		RSSBytes:   mem.RSS,
		Goroutines: runtime.NumGoroutine(),
		At:         time.Now(),
	}, nil
}
