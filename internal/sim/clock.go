package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/fieldlab/internal/dynamo"
)

const (
	DefaultFixedStep   = 1.0 / 60
	DefaultMinInterval = 16 * time.Millisecond

	MinSpeed = 0.1
	MaxSpeed = 3.0
)

// TimeProvider abstracts wall time so tick gating can be driven by tests.
type TimeProvider interface {
	Now() time.Time
}

type RealTime struct{}

func (RealTime) Now() time.Time { return time.Now() }

// ManualTime only moves when told to.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualTime) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

type ClockState int

const (
	Stopped ClockState = iota
	Running
)

func (s ClockState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	}
	return fmt.Sprintf("ClockState(%d)", int(s))
}

// Clock gates ticks against wall time and accumulates simulated time. Each
// tick advances simulated time by FixedStep scaled by the speed multiplier,
// independent of how late the tick fired.
type Clock struct {
	mu          sync.Mutex
	fixedStep   float64
	minInterval time.Duration
	state       ClockState
	speed       float64
	elapsed     float64
	ticks       uint64
	lastTick    time.Time
}

func NewClock(fixedStep float64, minInterval time.Duration) *Clock {
	if fixedStep <= 0 {
		fixedStep = DefaultFixedStep
	}
	if minInterval < 0 {
		minInterval = 0
	}
	return &Clock{fixedStep: fixedStep, minInterval: minInterval, speed: 1}
}

func (c *Clock) FixedStep() float64         { return c.fixedStep }
func (c *Clock) MinInterval() time.Duration { return c.minInterval }

// Start moves the clock to Running. The next Advance fires immediately.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		return
	}
	c.state = Running
	c.lastTick = time.Time{}
}

// Stop moves the clock to Stopped. No tick fires until the next Start.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Stopped
}

func (c *Clock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Clock) Running() bool { return c.State() == Running }

// SetSpeed sets the multiplier, clamped to [MinSpeed, MaxSpeed], and
// returns the applied value.
func (c *Clock) SetSpeed(m float64) float64 {
	m = dynamo.Clamp(m, MinSpeed, MaxSpeed)
	c.mu.Lock()
	c.speed = m
	c.mu.Unlock()
	return m
}

func (c *Clock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset zeroes simulated time and the tick count; state and speed are kept.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
	c.ticks = 0
	c.lastTick = time.Time{}
}

// Advance performs at most one tick. It reports false while stopped or when
// less than MinInterval has passed since the previous tick.
func (c *Clock) Advance(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return false
	}
	if !c.lastTick.IsZero() && now.Sub(c.lastTick) < c.minInterval {
		return false
	}
	c.lastTick = now
	c.tick()
	return true
}

// Step ticks once regardless of state or wall time.
func (c *Clock) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick()
}

func (c *Clock) tick() {
	c.elapsed += c.fixedStep * c.speed
	c.ticks++
}
