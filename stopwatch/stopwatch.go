// Package stopwatch keeps track of the real time and CPU time spent running
// a simulation and enforces limits on both.
//
// A [Stopwatch] is modeled after a physical stopwatch with Start, Stop and
// Reset buttons: time is accumulated only while it is running, so pauses of
// the simulation do not count against the limits.
package stopwatch

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeLimitExceeded is wrapped by every [LimitError].
var ErrTimeLimitExceeded = errors.New("time limit exceeded")

// Limit identifies the limit that has been exceeded.
type Limit uint8

const (
	RealTime Limit = iota
	CPUTime
)

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (l Limit) String() string {
	switch l {
	case RealTime:
		return "real time"
	case CPUTime:
		return "CPU time"
	}
	return fmt.Sprintf("Limit(%d)", uint8(l))
}

// LimitError is returned by [Stopwatch.Check] when a limit is exceeded.
type LimitError struct {
	Limit Limit
	Max   time.Duration // configured limit
	Used  time.Duration // accumulated usage
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v: %v used, limit is %v", e.Limit, e.Used, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrTimeLimitExceeded
}

// Option configures a [Stopwatch].
type Option func(*Stopwatch)

// WithClock replaces the wall clock, which is [time.Now] by default.
func WithClock(now func() time.Time) Option {
	return func(w *Stopwatch) { w.now = now }
}

// WithCPUClock replaces the source of process CPU time, which is
// [ProcessCPUTime] by default.
func WithCPUClock(cpu func() (time.Duration, error)) Option {
	return func(w *Stopwatch) { w.cpu = cpu }
}

// Stopwatch measures real and CPU time while it is running.
// Stopwatch is not safe for concurrent use.
type Stopwatch struct {
	now func() time.Time
	cpu func() (time.Duration, error)

	realTimeLimit time.Duration // negative if not set
	cpuTimeLimit  time.Duration // negative if not set

	running  bool
	elapsed  time.Duration
	lastTime time.Time
	cpuUsage time.Duration
	lastCPU  time.Duration
}

// New returns a stopped stopwatch without limits.
func New(opts ...Option) *Stopwatch {
	w := &Stopwatch{now: time.Now, cpu: ProcessCPUTime}
	for _, opt := range opts {
		opt(w)
	}
	w.Clear()
	return w
}

// Configure sets the limits found in cfg. Zero durations leave the
// corresponding limit unchanged.
func (w *Stopwatch) Configure(cfg Config) {
	if cfg.RealTimeLimit != 0 {
		w.SetRealTimeLimit(cfg.RealTimeLimit)
	}
	if cfg.CPUTimeLimit != 0 {
		w.SetCPUTimeLimit(cfg.CPUTimeLimit)
	}
}

// SetRealTimeLimit sets the limit on accumulated real time.
// A negative duration clears the limit.
func (w *Stopwatch) SetRealTimeLimit(d time.Duration) {
	if d < 0 {
		d = -1
	}
	w.realTimeLimit = d
}

// RealTimeLimit returns the limit on real time, or a negative duration if none is set.
func (w *Stopwatch) RealTimeLimit() time.Duration {
	return w.realTimeLimit
}

// SetCPUTimeLimit sets the limit on accumulated CPU time.
// A negative duration clears the limit.
func (w *Stopwatch) SetCPUTimeLimit(d time.Duration) {
	if d < 0 {
		d = -1
	}
	w.cpuTimeLimit = d
}

// CPUTimeLimit returns the limit on CPU time, or a negative duration if none is set.
func (w *Stopwatch) CPUTimeLimit() time.Duration {
	return w.cpuTimeLimit
}

// HasTimeLimits reports whether any limit is set.
func (w *Stopwatch) HasTimeLimits() bool {
	return w.realTimeLimit >= 0 || w.cpuTimeLimit >= 0
}

// Clear stops the stopwatch, resets the usage and removes the limits.
func (w *Stopwatch) Clear() {
	w.realTimeLimit = -1
	w.cpuTimeLimit = -1
	w.Reset()
}

// Reset stops the stopwatch and resets the usage, keeping the limits.
func (w *Stopwatch) Reset() {
	w.running = false
	w.elapsed = 0
	w.cpuUsage = 0
}

// Start starts accumulating time.
// Starting a running stopwatch has no effect.
//
// Start returns an error if the CPU time cannot be read.
func (w *Stopwatch) Start() error {
	if w.running {
		return nil
	}
	cpu, err := w.cpu()
	if err != nil {
		return fmt.Errorf("starting stopwatch: %w", err)
	}
	w.lastTime = w.now()
	w.lastCPU = cpu
	w.running = true
	return nil
}

// Stop stops accumulating time.
// Stopping a stopped stopwatch has no effect.
//
// Stop returns an error if the CPU time cannot be read; the real time is
// accumulated regardless.
func (w *Stopwatch) Stop() error {
	if !w.running {
		return nil
	}
	w.addRealTime()
	err := w.addCPUTime()
	w.running = false
	if err != nil {
		return fmt.Errorf("stopping stopwatch: %w", err)
	}
	return nil
}

// IsRunning reports whether the stopwatch is running.
func (w *Stopwatch) IsRunning() bool {
	return w.running
}

// ResetRealTimeUsage sets the accumulated real time to zero.
func (w *Stopwatch) ResetRealTimeUsage() {
	w.addRealTime()
	w.elapsed = 0
}

// ResetCPUTimeUsage sets the accumulated CPU time to zero.
func (w *Stopwatch) ResetCPUTimeUsage() error {
	err := w.addCPUTime()
	w.cpuUsage = 0
	return err
}

// Elapsed returns the accumulated real time.
func (w *Stopwatch) Elapsed() time.Duration {
	w.addRealTime()
	return w.elapsed
}

// CPUUsage returns the accumulated CPU time.
func (w *Stopwatch) CPUUsage() (time.Duration, error) {
	if err := w.addCPUTime(); err != nil {
		return 0, err
	}
	return w.cpuUsage, nil
}

// Check returns a [*LimitError] if the accumulated real time or CPU time
// exceeds its limit. It is meant to be called every few events.
//
// Check returns a different error if the CPU time cannot be read.
func (w *Stopwatch) Check() error {
	if w.realTimeLimit >= 0 {
		if used := w.Elapsed(); used > w.realTimeLimit {
			return &LimitError{Limit: RealTime, Max: w.realTimeLimit, Used: used}
		}
	}
	if w.cpuTimeLimit >= 0 {
		used, err := w.CPUUsage()
		if err != nil {
			return fmt.Errorf("checking CPU time limit: %w", err)
		}
		if used > w.cpuTimeLimit {
			return &LimitError{Limit: CPUTime, Max: w.cpuTimeLimit, Used: used}
		}
	}
	return nil
}

func (w *Stopwatch) addRealTime() {
	if !w.running {
		return
	}
	now := w.now()
	w.elapsed += now.Sub(w.lastTime)
	w.lastTime = now
}

func (w *Stopwatch) addCPUTime() error {
	if !w.running {
		return nil
	}
	cpu, err := w.cpu()
	if err != nil {
		return err
	}
	w.cpuUsage += cpu - w.lastCPU
	w.lastCPU = cpu
	return nil
}
