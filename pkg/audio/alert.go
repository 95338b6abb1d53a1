// Package audio plays the alarm alert, falling back from the chosen sound file
// to system sounds, speech and finally the terminal bell.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrAllTiersFailed is returned when no tier could produce an alert
var ErrAllTiersFailed = errors.New("all alert methods failed")

var errNoSoundFile = errors.New("no sound file configured")

// SpeechText is spoken by the speech tier
const SpeechText = "Alarm ringing"

var (
	macSystemSounds = []string{
		"/System/Library/Sounds/Glass.aiff",
		"/System/Library/Sounds/Ping.aiff",
		"/System/Library/Sounds/Pop.aiff",
		"/System/Library/Sounds/Blow.aiff",
	}
	freedesktopSounds = []string{
		"/usr/share/sounds/freedesktop/stereo/alarm-clock-elapsed.oga",
		"/usr/share/sounds/freedesktop/stereo/complete.oga",
		"/usr/share/sounds/freedesktop/stereo/bell.oga",
	}
)

// Tier is one way of producing an alert
type Tier interface {
	Name() string
	Play(ctx context.Context, soundPath string, duration time.Duration) error
}

// Alerter tries its tiers in order until one succeeds
type Alerter struct {
	tiers  []Tier
	logger zerolog.Logger
}

// NewAlerter creates an Alerter. With no tiers given it uses DefaultTiers.
func NewAlerter(logger zerolog.Logger, tiers ...Tier) *Alerter {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Alerter{tiers: tiers, logger: logger}
}

// DefaultTiers returns the platform fallback chain
func DefaultTiers() []Tier {
	r := ExecRunner{}
	return []Tier{
		NewFileTier(r),
		NewSystemSoundTier(r),
		NewSpeechTier(r),
		NewBellTier(os.Stdout),
	}
}

// Play blocks until an alert has been produced for duration or every tier failed
func (a *Alerter) Play(soundPath string, duration time.Duration) error {
	// Speech and bell may outlast the alert duration a little
	ctx, cancel := context.WithTimeout(context.Background(), duration+10*time.Second)
	defer cancel()

	for _, tier := range a.tiers {
		err := tier.Play(ctx, soundPath, duration)
		if err == nil {
			a.logger.Debug().Str("tier", tier.Name()).Msg("Alert played")
			return nil
		}
		a.logger.Debug().Err(err).Str("tier", tier.Name()).Msg("Alert tier failed")
	}
	return ErrAllTiersFailed
}

// FileTier plays the configured sound file. WAV files go through oto, other
// formats through the platform command player.
type FileTier struct {
	runner  Runner
	goos    string
	playWAV func(ctx context.Context, data []byte, d time.Duration) error
}

func NewFileTier(r Runner) *FileTier {
	return &FileTier{runner: r, goos: runtime.GOOS, playWAV: PlayWAV}
}

func (t *FileTier) Name() string { return "file" }

func (t *FileTier) Play(ctx context.Context, soundPath string, d time.Duration) error {
	if soundPath == "" {
		return errNoSoundFile
	}
	if !fileExists(soundPath) {
		return fmt.Errorf("sound file %q not found", soundPath)
	}

	if strings.EqualFold(filepath.Ext(soundPath), ".wav") {
		data, err := os.ReadFile(soundPath)
		if err != nil {
			return err
		}
		err = t.playWAV(ctx, data, d)
		if err == nil {
			return nil
		}
		// oto could not take it; the command player might
		if !errors.Is(err, ErrFormatMismatch) && !errors.Is(err, ErrAudioUnavailable) && !errors.Is(err, ErrInvalidWAV) {
			return err
		}
	}

	var lastErr error
	for _, player := range commandPlayers(t.goos) {
		if lastErr = playFor(ctx, t.runner, d, player, soundPath); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func commandPlayers(goos string) []string {
	if goos == "darwin" {
		return []string{"afplay"}
	}
	return []string{"paplay", "aplay"}
}

// SystemSoundTier plays one of the platform's stock notification sounds
type SystemSoundTier struct {
	runner Runner
	goos   string
	exists func(string) bool
}

func NewSystemSoundTier(r Runner) *SystemSoundTier {
	return &SystemSoundTier{runner: r, goos: runtime.GOOS, exists: fileExists}
}

func (t *SystemSoundTier) Name() string { return "system-sound" }

func (t *SystemSoundTier) Play(ctx context.Context, _ string, d time.Duration) error {
	player, sounds := "paplay", freedesktopSounds
	if t.goos == "darwin" {
		player, sounds = "afplay", macSystemSounds
	}

	lastErr := errors.New("no system sound found")
	for _, s := range sounds {
		if !t.exists(s) {
			continue
		}
		if lastErr = playFor(ctx, t.runner, d, player, s); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// SpeechTier speaks SpeechText with the first speech program available
type SpeechTier struct {
	runner Runner
}

func NewSpeechTier(r Runner) *SpeechTier {
	return &SpeechTier{runner: r}
}

func (t *SpeechTier) Name() string { return "speech" }

func (t *SpeechTier) Play(ctx context.Context, _ string, _ time.Duration) error {
	lastErr := errors.New("no speech program found")
	for _, prog := range []string{"say", "spd-say", "espeak"} {
		if _, err := t.runner.LookPath(prog); err != nil {
			continue
		}
		args := []string{SpeechText}
		if prog == "spd-say" {
			// spd-say returns before speaking unless told to wait
			args = []string{"--wait", SpeechText}
		}
		if lastErr = t.runner.Run(ctx, prog, args...); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// BellTier rings the terminal bell
type BellTier struct {
	w     io.Writer
	Count int
	Gap   time.Duration
}

func NewBellTier(w io.Writer) *BellTier {
	return &BellTier{w: w, Count: 3, Gap: 250 * time.Millisecond}
}

func (t *BellTier) Name() string { return "bell" }

func (t *BellTier) Play(ctx context.Context, _ string, _ time.Duration) error {
	for i := 0; i < t.Count; i++ {
		if _, err := io.WriteString(t.w, "\a"); err != nil {
			return err
		}
		if err := sleep(ctx, t.Gap); err != nil {
			return err
		}
	}
	return nil
}
