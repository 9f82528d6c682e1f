package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/lib/route"
)

// DefaultInterval is the wall-clock time between ticks
const DefaultInterval = time.Second

var (
	ErrInvalidRoute   = errors.New("route cannot be simulated")
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotIdle        = errors.New("simulation is not idle")
)

// Option configures a Simulator
type Option func(*Simulator)

// WithInterval sets the tick interval
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces the wall clock, mainly for tests
func WithClock(c Clock) Option {
	return func(s *Simulator) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithListener registers a callback for every emitted state
func WithListener(l Listener) Option {
	return func(s *Simulator) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Simulator plays a route back one coordinate per tick.
//
// Lifecycle: Idle -> Running -> Complete, and Running -> Idle on Stop.
// Start always rewinds to the first coordinate; Resume continues from where
// the last run stopped.
type Simulator struct {
	interval  time.Duration
	clock     Clock
	listeners []Listener
	logger    *zap.Logger

	// ctl serializes Start, Stop and Resume so a new run never overlaps the previous loop
	ctl sync.Mutex

	mu      sync.Mutex
	tracker tracker
	status  Status
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSimulator creates an idle simulator for a private copy of path
func NewSimulator(path *route.RoutePath, opts ...Option) (*Simulator, error) {
	if path == nil {
		return nil, fmt.Errorf("%w: no route", ErrInvalidRoute)
	}
	if err := path.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	owned := deepcopy.Copy(path).(*route.RoutePath)

	s := &Simulator{
		interval: DefaultInterval,
		clock:    realClock{},
		logger:   zap.NewNop(),
		tracker:  newTracker(owned),
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = s.tracker.current()
	s.state.Status = StatusIdle
	return s, nil
}

// State returns the most recent snapshot
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the lifecycle phase
func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start rewinds to the first coordinate and begins ticking. It is valid from
// Idle and Complete.
func (s *Simulator) Start(ctx context.Context) error {
	return s.run(ctx, true)
}

// Resume begins ticking from the position the last run stopped at. It is only
// valid from Idle.
func (s *Simulator) Resume(ctx context.Context) error {
	return s.run(ctx, false)
}

func (s *Simulator) run(ctx context.Context, rewind bool) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.status == StatusRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if !rewind && s.status != StatusIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}
	prev := s.done
	s.mu.Unlock()

	// A completed loop may still be delivering its final state
	if prev != nil {
		<-prev
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := s.clock.NewTicker(s.interval)

	s.mu.Lock()
	if rewind {
		s.tracker.reset()
	}
	s.status = StatusRunning
	s.state = s.tracker.current()
	s.state.Status = StatusRunning
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.logger.Debug("simulation started",
		zap.Bool("rewind", rewind),
		zap.Int("coordinate_index", s.state.CoordinateIndex),
		zap.Duration("interval", s.interval))

	go s.loop(runCtx, cancel, ticker, done)
	return nil
}

// Stop halts a running simulation and returns to Idle. When Stop returns no
// tick is in progress and none will fire.
func (s *Simulator) Stop() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return
	}
	s.status = StatusIdle
	s.state.Status = StatusIdle
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.logger.Debug("simulation stopped", zap.Int("coordinate_index", s.State().CoordinateIndex))
}

func (s *Simulator) loop(ctx context.Context, cancel context.CancelFunc, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer cancel()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.status == StatusRunning {
				// parent context cancelled without Stop
				s.status = StatusIdle
				s.state.Status = StatusIdle
			}
			s.mu.Unlock()
			return
		case <-ticker.C():
			state, ok := s.tick(ctx)
			if !ok {
				return
			}
			s.notify(state)
			if state.IsComplete {
				s.logger.Debug("simulation complete")
				return
			}
		}
	}
}

func (s *Simulator) tick(ctx context.Context) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.status != StatusRunning {
		return State{}, false
	}

	state := s.tracker.step()
	if state.IsComplete {
		s.status = StatusComplete
	}
	state.Status = s.status
	s.state = state
	return state, true
}

func (s *Simulator) notify(state State) {
	for _, l := range s.listeners {
		l(state)
	}
}
