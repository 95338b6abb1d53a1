package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	pkgconfig "github.com/borgmon/alarm-clock/pkg/config"
	"github.com/borgmon/alarm-clock/pkg/logging"
	"github.com/borgmon/alarm-clock/pkg/models"
)

const (
	appID   = "io.github.borgmon.alarm-clock"
	appName = "Alarm Clock"
)

// loadFileConfig builds the configuration from defaults and the optional
// YAML file, without command-line flags.
func loadFileConfig(cmd *cli.Command) (*models.Config, error) {
	cfg := models.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// loadConfig is loadFileConfig with command-line flags applied on top
func loadConfig(cmd *cli.Command) (*models.Config, error) {
	base, err := loadFileConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg := *base
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyFlags(cmd *cli.Command, cfg *models.Config) {
	if cmd.IsSet("alarms") {
		cfg.AlarmsFile = cmd.String("alarms")
	}
	if cmd.IsSet("sound") {
		cfg.SoundFile = cmd.String("sound")
	}
	if cmd.IsSet("duration") {
		cfg.AlertSeconds = alertSeconds(cmd.Duration("duration"))
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
}

// alertSeconds rounds d up to whole seconds so a short flag like 400ms
// still plays for one second
func alertSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewStderr(cfg.LogLevel)

	if cmd.Bool("headless") {
		return runHeadless(ctx, cfg, logger, cmd.Root().Writer)
	}
	base, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	return runGUI(ctx, base, func(c *models.Config) { applyFlags(cmd, c) }, logger)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "alarm-clock",
		Usage:  "Desktop alarm clock with daily and one-shot alarms",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("ALARM_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:        "alarms",
				Usage:       "Path to the alarms JSON file",
				DefaultText: "alarms.json",
				Sources:     cli.EnvVars("ALARM_FILE"),
			},
			&cli.StringFlag{
				Name:    "sound",
				Usage:   "Sound file played when an alarm rings",
				Sources: cli.EnvVars("ALARM_SOUND_FILE"),
			},
			&cli.DurationFlag{
				Name:        "duration",
				Usage:       "How long the alert sound plays",
				DefaultText: "3s",
				Sources:     cli.EnvVars("ALARM_DURATION"),
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "debug, info, warn or error",
				DefaultText: "info",
				Sources:     cli.EnvVars("ALARM_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "headless",
				Usage:   "Run without a window, printing alarms to the console",
				Sources: cli.EnvVars("ALARM_HEADLESS"),
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			addCommand(),
			exportCommand(),
			importCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}
