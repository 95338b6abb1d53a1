package scheduler

import (
	"sync"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/rs/zerolog"
)

// DefaultAlertDuration is how long the alert sound plays
const DefaultAlertDuration = 3 * time.Second

// Player plays an alert. soundPath may be empty.
type Player interface {
	Play(soundPath string, duration time.Duration) error
}

// RingStore is the part of the alarm store a Ringer needs
type RingStore interface {
	Get(id string) (models.Alarm, bool)
	MarkFired(id string) (models.Alarm, bool)
}

// Ringer performs the alert and state update for a fired alarm
type Ringer struct {
	store  RingStore
	player Player
	logger zerolog.Logger

	mu        sync.RWMutex
	soundFile string
	duration  time.Duration
	listeners []func(models.Alarm)
}

// NewRinger creates a Ringer using the default alert duration and no custom sound
func NewRinger(store RingStore, player Player, logger zerolog.Logger) *Ringer {
	return &Ringer{
		store:    store,
		player:   player,
		logger:   logger,
		duration: DefaultAlertDuration,
	}
}

// SetSound changes the sound file and duration used by later rings
func (r *Ringer) SetSound(soundFile string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.soundFile = soundFile
	if duration > 0 {
		r.duration = duration
	}
}

// OnRing registers fn to run after an alarm has rung and its state was updated
func (r *Ringer) OnRing(fn func(models.Alarm)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Fire rings the alarm with the given ID. Alarms deleted or disabled since
// they were matched are ignored. A playback failure does not stop the state
// update.
func (r *Ringer) Fire(id string) {
	alarm, ok := r.store.Get(id)
	if !ok {
		r.logger.Debug().Str("id", id).Msg("Fired alarm no longer exists")
		return
	}
	if !alarm.Enabled {
		r.logger.Debug().Str("id", id).Msg("Fired alarm was disabled")
		return
	}

	r.mu.RLock()
	soundFile, duration := r.soundFile, r.duration
	r.mu.RUnlock()

	r.logger.Info().Str("id", id).Str("time", alarm.Time).Str("label", alarm.Label).Msg("Alarm ringing")

	if err := r.player.Play(soundFile, duration); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Alert playback failed")
	}

	updated, ok := r.store.MarkFired(id)
	if !ok {
		return
	}

	r.mu.RLock()
	listeners := make([]func(models.Alarm), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn(updated)
	}
}
