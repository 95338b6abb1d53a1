package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"github.com/rs/zerolog"
)

// setupAutostart registers or removes the login item to match enable
func setupAutostart(enable bool, logger zerolog.Logger) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "alarm-clock",
		DisplayName: appName,
		Exec:        []string{execPath},
	}

	switch {
	case enable && !app.IsEnabled():
		if err := app.Enable(); err != nil {
			return err
		}
		logger.Info().Msg("Autostart enabled")
	case !enable && app.IsEnabled():
		if err := app.Disable(); err != nil {
			return err
		}
		logger.Info().Msg("Autostart disabled")
	}

	return nil
}
