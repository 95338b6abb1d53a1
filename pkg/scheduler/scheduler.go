// Package scheduler polls the wall clock and rings alarms whose minute has come.
package scheduler

import (
	"context"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/rs/zerolog"
)

// DefaultInterval is how often the clock is sampled
const DefaultInterval = time.Second

// AlarmSource provides the current alarm list
type AlarmSource interface {
	List() []models.Alarm
}

// Dispatcher hands a task to the serialized event queue
type Dispatcher func(func())

// Scheduler samples the clock on a fixed interval, runs the Matcher and
// dispatches every fired alarm to onFired through the Dispatcher.
type Scheduler struct {
	source   AlarmSource
	matcher  *Matcher
	onFired  func(id string)
	dispatch Dispatcher
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval sets the polling interval
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithDispatcher sets where fired alarms are handed off.
// Without one, onFired runs on the scheduler goroutine.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) {
		s.dispatch = d
	}
}

// New creates a Scheduler
func New(source AlarmSource, matcher *Matcher, onFired func(id string), logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		matcher:  matcher,
		onFired:  onFired,
		dispatch: func(fn func()) { fn() },
		interval: DefaultInterval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks immediately and then every interval until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")
	s.safeTick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.safeTick(ctx)
		}
	}
}

// safeTick runs one tick, recovering a panic so later ticks still happen
func (s *Scheduler) safeTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("Scheduler tick failed")
		}
	}()
	s.Tick(s.now())
}

// Tick checks the alarms against now and dispatches the fired ones in list
// order. It returns the fired alarm IDs.
func (s *Scheduler) Tick(now time.Time) []string {
	ids := s.matcher.Match(now, s.source.List())
	for _, id := range ids {
		id := id
		s.logger.Debug().Str("id", id).Str("minute", now.Format(models.TimeLayout)).Msg("Alarm matched")
		s.dispatch(func() {
			s.onFired(id)
		})
	}
	return ids
}
