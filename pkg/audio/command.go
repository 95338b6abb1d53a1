package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Runner starts external sound and speech programs
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// playFor runs a command player and keeps the alert going for the full
// duration. A player still running when the duration is up is killed.
func playFor(ctx context.Context, r Runner, d time.Duration, name string, args ...string) error {
	if _, err := r.LookPath(name); err != nil {
		return err
	}

	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	if err := r.Run(cctx, name, args...); err != nil && cctx.Err() == nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return sleep(ctx, d-time.Since(start))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
