package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/borgmon/alarm-clock/pkg/calendar"
	"github.com/borgmon/alarm-clock/pkg/logging"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/store"
)

// openStore loads the alarms file named by the config for a one-off command
func openStore(cmd *cli.Command) (*store.AlarmStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.NewStderr(cfg.LogLevel)
	as := store.NewAlarmStore(cfg.AlarmsFile, logging.Component(logger, "store"))
	as.Load()
	return as, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the alarms and when they ring next",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			as, err := openStore(cmd)
			if err != nil {
				return err
			}
			return printAlarms(cmd.Root().Writer, as.List(), time.Now())
		},
	}
}

func printAlarms(w io.Writer, alarms []models.Alarm, now time.Time) error {
	if len(alarms) == 0 {
		_, err := fmt.Fprintln(w, "No alarms set.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATE\tREPEAT\tLABEL\tNEXT")
	for _, a := range alarms {
		state, next := "ON", "-"
		if !a.Enabled {
			state = "OFF"
		}
		if at := calendar.NextOccurrence(a, now); !at.IsZero() {
			next = calendar.Occurrence{Alarm: a, At: at}.Describe(now)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.Time, state, a.RepeatText(), a.Label, next)
	}
	return tw.Flush()
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an alarm",
		ArgsUsage: "HH:MM [label]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "daily", Aliases: []string{"d"}, Usage: "Repeat every day"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return cli.Exit("usage: alarm-clock add HH:MM [label]", 2)
			}
			as, err := openStore(cmd)
			if err != nil {
				return err
			}

			repeat := models.RepeatNone
			if cmd.Bool("daily") {
				repeat = models.RepeatDaily
			}
			alarm, err := as.Add(cmd.Args().Get(0), cmd.Args().Get(1), repeat)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if err := as.Save(); err != nil {
				return fmt.Errorf("failed to save alarms: %w", err)
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "Added %s\n", alarm)
			return err
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the alarms as an iCalendar file",
		ArgsUsage: "[file.ics]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			as, err := openStore(cmd)
			if err != nil {
				return err
			}

			if cmd.NArg() == 0 {
				return calendar.Export(cmd.Root().Writer, as.List(), time.Now())
			}

			f, err := os.Create(cmd.Args().First())
			if err != nil {
				return err
			}
			if err := calendar.Export(f, as.List(), time.Now()); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Append the events of an iCalendar file as alarms",
		ArgsUsage: "file.ics",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return cli.Exit("usage: alarm-clock import file.ics", 2)
			}
			as, err := openStore(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(cmd.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			alarms, err := calendar.Import(f)
			if err != nil {
				return err
			}
			n := as.Import(alarms)
			if err := as.Save(); err != nil {
				return fmt.Errorf("failed to save alarms: %w", err)
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "Imported %d alarms\n", n)
			return err
		},
	}
}
