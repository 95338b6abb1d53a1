package main

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/borgmon/alarm-clock/pkg/logging"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/scheduler"
	"github.com/borgmon/alarm-clock/pkg/store"
)

const queueSize = 16

// AlarmClock owns the alarm list, the fired-key set and the background
// goroutines. Both the window and the headless console drive one of these.
type AlarmClock struct {
	config    *models.Config
	logger    zerolog.Logger
	store     *store.AlarmStore
	queue     *scheduler.Queue
	ringer    *scheduler.Ringer
	scheduler *scheduler.Scheduler
}

// NewAlarmClock loads the alarms file and wires the scheduler to the ringer
// through the serialized queue.
func NewAlarmClock(cfg *models.Config, logger zerolog.Logger, player scheduler.Player) *AlarmClock {
	as := store.NewAlarmStore(cfg.AlarmsFile, logging.Component(logger, "store"))
	alarms := as.Load()
	logger.Info().Int("alarms", len(alarms)).Str("path", cfg.AlarmsFile).Msg("Alarms loaded")

	queue := scheduler.NewQueue(queueSize, logging.Component(logger, "queue"))

	ringer := scheduler.NewRinger(as, player, logging.Component(logger, "ringer"))
	ringer.SetSound(cfg.SoundFile, cfg.AlertDuration())

	sched := scheduler.New(as, scheduler.NewMatcher(), ringer.Fire,
		logging.Component(logger, "scheduler"),
		scheduler.WithDispatcher(queue.Do),
	)

	return &AlarmClock{
		config:    cfg,
		logger:    logger,
		store:     as,
		queue:     queue,
		ringer:    ringer,
		scheduler: sched,
	}
}

// Run blocks until ctx is cancelled. A failing file watcher only disables
// reloading of outside edits.
func (ac *AlarmClock) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ac.queue.Run(gCtx)
	})

	g.Go(func() error {
		return ac.scheduler.Run(gCtx)
	})

	g.Go(func() error {
		if err := store.Watch(gCtx, ac.store); err != nil {
			ac.logger.Warn().Err(err).Msg("Alarms file watcher unavailable")
		}
		return nil
	})

	return g.Wait()
}

// ApplyConfig takes over sound settings changed at runtime
func (ac *AlarmClock) ApplyConfig(cfg *models.Config) {
	ac.config = cfg
	ac.ringer.SetSound(cfg.SoundFile, cfg.AlertDuration())
}
