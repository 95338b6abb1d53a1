package main

import (
	"context"
	"image/color"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"

	"github.com/borgmon/alarm-clock/pkg/audio"
	"github.com/borgmon/alarm-clock/pkg/logging"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/store"
)

// runGUI opens the main window and blocks until the app quits. base holds
// defaults and the config file; overrides reapplies command-line flags on
// top of the saved settings.
func runGUI(ctx context.Context, base *models.Config, overrides func(*models.Config), logger zerolog.Logger) error {
	a := app.NewWithID(appID)

	prefs := store.NewConfigStore(a.Preferences())
	settings, cfg := loadSettings(prefs, base, overrides)

	applyTheme(a, cfg.Theme)
	if err := setupAutostart(cfg.AutoStart, logger); err != nil {
		logger.Warn().Err(err).Msg("Failed to set up autostart")
	}

	ac := NewAlarmClock(cfg, logger, audio.NewAlerter(logging.Component(logger, "audio")))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	aw := NewAlarmWindow(a, ac, prefs, settings)
	tray := newSystemTray(a, ac, aw)

	ac.store.OnChange(func() {
		fyne.Do(func() {
			aw.refresh()
			tray.refresh()
		})
	})
	ac.ringer.OnRing(func(alarm models.Alarm) {
		fyne.Do(func() {
			aw.setStatus("Ringing: "+alarm.Label, statusInfo)
			showRingWindow(a, alarm, logger)
		})
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- ac.Run(ctx)
	}()

	appDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			fyne.Do(a.Quit)
		case <-appDone:
		}
	}()

	aw.Show()
	a.Run()

	close(appDone)
	cancel()
	return <-errCh
}

// loadSettings returns the saved GUI settings and the effective config with
// command-line overrides on top. Only the former is ever saved back.
func loadSettings(prefs *store.ConfigStore, base *models.Config, overrides func(*models.Config)) (settings, effective *models.Config) {
	settings = prefs.Load(base)
	cfg := *settings
	overrides(&cfg)
	return settings, &cfg
}

// variantTheme pins the default theme to one variant
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func applyTheme(a fyne.App, name string) {
	switch name {
	case models.ThemeLight:
		a.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
	case models.ThemeDark:
		a.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
	default:
		a.Settings().SetTheme(theme.DefaultTheme())
	}
}
