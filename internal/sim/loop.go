package sim

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLoopStarted = errors.New("sim: loop already started")

// Loop drives a Simulator from a ticker on its own goroutine. Parameter
// edits submitted while it runs are applied between ticks, never during one.
type Loop struct {
	sim      *Simulator
	interval time.Duration
	clock    TimeProvider

	edits chan func(*Simulator)
	stop  chan struct{}
	done  chan struct{}

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLoop creates a loop firing every interval. A non-positive interval
// uses the clock's minimum tick interval.
func NewLoop(sim *Simulator, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = sim.Clock().MinInterval()
	}
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	return &Loop{
		sim:      sim,
		interval: interval,
		clock:    RealTime{},
		edits:    make(chan func(*Simulator)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetTimeProvider replaces wall time used for tick gating. Call before Start.
func (l *Loop) SetTimeProvider(tp TimeProvider) {
	l.clock = tp
}

// Start runs the clock and the tick goroutine. onFrame is called on the
// loop goroutine for every tick that fires.
func (l *Loop) Start(ctx context.Context, onFrame func(Frame)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return ErrLoopStarted
	}
	l.started = true

	l.sim.Clock().Start()
	ticker := time.NewTicker(l.interval)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(l.done)
		defer ticker.Stop()
		defer l.sim.Clock().Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.stop:
				return
			case fn := <-l.edits:
				fn(l.sim)
			case <-ticker.C:
				if f, ok := l.sim.Tick(l.clock.Now()); ok && onFrame != nil {
					onFrame(f)
				}
			}
		}
	}()
	return nil
}

// Submit applies fn between ticks and waits for it. Before Start it runs
// fn directly; after the loop exits it is dropped.
func (l *Loop) Submit(fn func(*Simulator)) bool {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		fn(l.sim)
		return true
	}

	applied := make(chan struct{})
	wrapped := func(s *Simulator) {
		fn(s)
		close(applied)
	}
	select {
	case l.edits <- wrapped:
		<-applied
		return true
	case <-l.done:
		return false
	}
}

// Stop halts the clock and the goroutine and releases the ticker. It is
// safe to call more than once and before Start.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.sim.Clock().Stop()
		close(l.stop)
	})
	l.wg.Wait()
}

// Done is closed when the tick goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }
