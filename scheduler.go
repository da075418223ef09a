package beacon

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// TickRate is the duration of one server tick (20 TPS).
const TickRate = 50 * time.Millisecond

// Scheduler runs loops at fixed intervals measured in server ticks.
//
// All loops run on the scheduler's own goroutine, one after another. A loop
// never runs concurrently with itself; if a run takes longer than its
// interval, the next run starts on the following tick instead of being
// dropped.
type Scheduler struct {
	log *slog.Logger

	loops   []*loopState
	loopsMu sync.Mutex

	// Execution state
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
	now        func() time.Time
}

// loopState tracks the state of a single loop.
type loopState struct {
	name     string
	system   Runnable
	interval time.Duration
	lastRun  time.Time
	nextRun  time.Time
	runs     uint64
}

// ShouldRun checks if the loop should run at the given time.
func (l *loopState) ShouldRun(now time.Time) bool {
	return !now.Before(l.nextRun)
}

// MarkRun records a run that started at start and schedules the next one.
func (l *loopState) MarkRun(start, end time.Time) {
	l.lastRun = start
	l.runs++

	// Drift-free timing
	l.nextRun = l.nextRun.Add(l.interval)
	if l.nextRun.Before(end) {
		// Overran the interval: run again on the next tick.
		l.nextRun = end
	}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		log:      log,
		tickRate: TickRate,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// AddLoop registers a loop that first runs after delay ticks and then every
// interval ticks.
func (s *Scheduler) AddLoop(name string, sys Runnable, delay, interval int) {
	if interval < 1 {
		interval = 1
	}

	s.loopsMu.Lock()
	defer s.loopsMu.Unlock()

	s.loops = append(s.loops, &loopState{
		name:     name,
		system:   sys,
		interval: time.Duration(interval) * s.tickRate,
		nextRun:  s.now().Add(time.Duration(delay) * s.tickRate),
	})
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}
	go s.tickLoop()
}

// Stop stops the tick loop and waits for a running loop to finish.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}

	close(s.stopCh)
	<-s.doneCh
}

// TickNumber returns the number of ticks processed so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(s.now())
		}
	}
}

// tick runs every loop that is due at now.
func (s *Scheduler) tick(now time.Time) {
	s.tickNumber.Add(1)

	s.loopsMu.Lock()
	loops := make([]*loopState, len(s.loops))
	copy(loops, s.loops)
	s.loopsMu.Unlock()

	for _, loop := range loops {
		if !loop.ShouldRun(now) {
			continue
		}
		s.runLoop(loop)
		loop.MarkRun(now, s.now())
	}
}

// runLoop executes a loop, recovering from a panic so that only this run is
// lost.
func (s *Scheduler) runLoop(loop *loopState) {
	defer func() {
		if r := recover(); r != nil {
			s.handleSystemPanic(loop.name, r)
		}
	}()
	loop.system.Run()
}

func (s *Scheduler) handleSystemPanic(name string, recovered any) {
	err := fmt.Errorf("panic in loop %s: %v", name, recovered)
	s.log.Error("beacon: loop run aborted",
		"loop", name,
		"error", err,
		"stack", string(debug.Stack()))
}
