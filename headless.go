package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/borgmon/alarm-clock/pkg/audio"
	"github.com/borgmon/alarm-clock/pkg/calendar"
	"github.com/borgmon/alarm-clock/pkg/logging"
	"github.com/borgmon/alarm-clock/pkg/models"
)

// runHeadless rings alarms from the console until interrupted
func runHeadless(ctx context.Context, cfg *models.Config, logger zerolog.Logger, out io.Writer) error {
	player := audio.NewAlerter(logging.Component(logger, "audio"))
	ac := NewAlarmClock(cfg, logger, player)

	ac.ringer.OnRing(func(a models.Alarm) {
		fmt.Fprintf(out, "[%s] ALARM: %s, it's %s\n", time.Now().Format("15:04:05"), a.Label, a.Time)
	})

	fmt.Fprintf(out, "%s running headless with %d alarms. Press Ctrl+C to quit.\n", appName, len(ac.store.List()))
	for _, o := range calendar.Upcoming(ac.store.List(), time.Now(), 5) {
		fmt.Fprintf(out, "  next: %s  %s\n", o.Describe(time.Now()), o.Alarm.Label)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ac.Run(gCtx)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		case <-gCtx.Done():
		}
		cancel()
		return nil
	})

	return g.Wait()
}
