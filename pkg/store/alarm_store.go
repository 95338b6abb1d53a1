package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no alarm has the requested ID
var ErrNotFound = errors.New("alarm not found")

// AlarmStore owns the ordered alarm list and its JSON file.
// All methods are safe for concurrent use; returned alarms are copies.
type AlarmStore struct {
	mu sync.RWMutex

	path   string
	alarms []*models.Alarm

	// Digest of the file content this store last read or wrote,
	// used to tell our own writes apart from external edits
	lastDigest [32]byte

	listeners []func()
	logger    zerolog.Logger
}

// alarmRecord mirrors the file format with optional fields
type alarmRecord struct {
	ID      *string `json:"id"`
	Time    *string `json:"time"`
	Label   *string `json:"label"`
	Repeat  *string `json:"repeat"`
	Enabled *bool   `json:"enabled"`
}

// NewAlarmStore creates an empty store backed by path. Call Load to read it.
func NewAlarmStore(path string, logger zerolog.Logger) *AlarmStore {
	return &AlarmStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path
func (as *AlarmStore) Path() string {
	return as.path
}

// OnChange registers fn to run after every change to the alarm list
func (as *AlarmStore) OnChange(fn func()) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.listeners = append(as.listeners, fn)
}

// Load reads the backing file and replaces the in-memory list with its
// valid records. A missing or unreadable file yields an empty list.
func (as *AlarmStore) Load() []models.Alarm {
	data, err := os.ReadFile(as.path)

	as.mu.Lock()
	switch {
	case errors.Is(err, os.ErrNotExist):
		as.logger.Debug().Str("path", as.path).Msg("No alarms file yet")
		as.alarms = nil
	case err != nil:
		as.logger.Warn().Err(err).Str("path", as.path).Msg("Failed to read alarms file")
		as.alarms = nil
	default:
		as.lastDigest = digest(data)
		alarms, err := as.decode(data)
		if err != nil {
			as.logger.Warn().Err(err).Str("path", as.path).Msg("Alarms file is corrupted, starting empty")
		}
		as.alarms = alarms
	}
	result := as.snapshotLocked()
	as.mu.Unlock()

	as.notify()
	return result
}

// Reload re-reads the backing file if its content differs from what this
// store last read or wrote. It returns true if the list was replaced.
func (as *AlarmStore) Reload() bool {
	data, err := os.ReadFile(as.path)
	if err != nil {
		as.logger.Debug().Err(err).Str("path", as.path).Msg("Reload skipped")
		return false
	}

	as.mu.Lock()
	if digest(data) == as.lastDigest {
		as.mu.Unlock()
		return false
	}
	as.lastDigest = digest(data)
	alarms, err := as.decode(data)
	if err != nil {
		// Keep the current list; it is written back on the next change
		as.mu.Unlock()
		as.logger.Warn().Err(err).Str("path", as.path).Msg("Alarms file edit does not parse, keeping current alarms")
		return false
	}
	as.alarms = alarms
	count := len(as.alarms)
	as.mu.Unlock()

	as.logger.Info().Int("alarms", count).Msg("Alarms file changed on disk, reloaded")
	as.notify()
	return true
}

// decode parses the file content, keeping only records with a valid time.
// It fails only when the file as a whole is not a JSON array.
func (as *AlarmStore) decode(data []byte) ([]*models.Alarm, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode alarms: %w", err)
	}

	alarms := make([]*models.Alarm, 0, len(raw))
	seen := make(map[string]bool)
	skipped := 0

	for _, item := range raw {
		var rec alarmRecord
		if err := json.Unmarshal(item, &rec); err != nil || rec.Time == nil || !models.ValidTime(*rec.Time) {
			skipped++
			continue
		}

		alarm := &models.Alarm{
			Time:    *rec.Time,
			Label:   models.DefaultLabel,
			Repeat:  models.RepeatNone,
			Enabled: true,
		}
		if rec.Label != nil {
			alarm.Label = *rec.Label
		}
		if rec.Repeat != nil {
			alarm.Repeat = models.ParseRepeat(*rec.Repeat)
		}
		if rec.Enabled != nil {
			alarm.Enabled = *rec.Enabled
		}
		if rec.ID != nil && *rec.ID != "" && !seen[*rec.ID] {
			alarm.ID = *rec.ID
		} else {
			alarm.ID = uuid.New().String()
		}
		seen[alarm.ID] = true

		alarms = append(alarms, alarm)
	}

	if skipped > 0 {
		as.logger.Warn().Int("skipped", skipped).Msg("Ignored invalid alarm records")
	}
	return alarms, nil
}

// Save writes the full list to the backing file
func (as *AlarmStore) Save() error {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.saveLocked()
}

func (as *AlarmStore) saveLocked() error {
	list := as.snapshotLocked()
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode alarms: %w", err)
	}
	if err := writeFileAtomic(as.path, data); err != nil {
		return err
	}
	as.lastDigest = digest(data)
	return nil
}

// persistLocked saves and logs a failure instead of returning it; the
// in-memory list stays authoritative for the session
func (as *AlarmStore) persistLocked() {
	if err := as.saveLocked(); err != nil {
		as.logger.Error().Err(err).Str("path", as.path).Msg("Failed to save alarms")
	}
}

// List returns a copy of all alarms in order
func (as *AlarmStore) List() []models.Alarm {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return as.snapshotLocked()
}

func (as *AlarmStore) snapshotLocked() []models.Alarm {
	result := make([]models.Alarm, 0, len(as.alarms))
	for _, a := range as.alarms {
		result = append(result, *a)
	}
	return result
}

// Get returns the alarm with the given ID
func (as *AlarmStore) Get(id string) (models.Alarm, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if a := as.findLocked(id); a != nil {
		return *a, true
	}
	return models.Alarm{}, false
}

func (as *AlarmStore) findLocked(id string) *models.Alarm {
	for _, a := range as.alarms {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Add appends a new enabled alarm and persists the list
func (as *AlarmStore) Add(hhmm, label string, repeat models.Repeat) (models.Alarm, error) {
	t, err := models.CheckTime(hhmm)
	if err != nil {
		return models.Alarm{}, err
	}

	alarm := &models.Alarm{
		ID:      uuid.New().String(),
		Time:    t,
		Label:   models.LabelOrDefault(label),
		Repeat:  models.ParseRepeat(string(repeat)),
		Enabled: true,
	}

	as.mu.Lock()
	as.alarms = append(as.alarms, alarm)
	as.persistLocked()
	result := *alarm
	as.mu.Unlock()

	as.logger.Info().Str("id", alarm.ID).Str("time", alarm.Time).Str("label", alarm.Label).Msg("Alarm added")
	as.notify()
	return result, nil
}

// Toggle flips the enabled flag of an alarm and persists the list
func (as *AlarmStore) Toggle(id string) (models.Alarm, error) {
	as.mu.Lock()
	alarm := as.findLocked(id)
	if alarm == nil {
		as.mu.Unlock()
		return models.Alarm{}, fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	alarm.Enabled = !alarm.Enabled
	as.persistLocked()
	result := *alarm
	as.mu.Unlock()

	as.notify()
	return result, nil
}

// Edit replaces time, label and repeat of an alarm. Editing re-enables it.
func (as *AlarmStore) Edit(id, hhmm, label string, repeat models.Repeat) (models.Alarm, error) {
	t, err := models.CheckTime(hhmm)
	if err != nil {
		return models.Alarm{}, err
	}

	as.mu.Lock()
	alarm := as.findLocked(id)
	if alarm == nil {
		as.mu.Unlock()
		return models.Alarm{}, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	alarm.Time = t
	alarm.Label = models.LabelOrDefault(label)
	alarm.Repeat = models.ParseRepeat(string(repeat))
	alarm.Enabled = true
	as.persistLocked()
	result := *alarm
	as.mu.Unlock()

	as.notify()
	return result, nil
}

// Delete removes an alarm and persists the list
func (as *AlarmStore) Delete(id string) error {
	as.mu.Lock()
	idx := -1
	for i, a := range as.alarms {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		as.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	as.alarms = append(as.alarms[:idx], as.alarms[idx+1:]...)
	as.persistLocked()
	as.mu.Unlock()

	as.logger.Info().Str("id", id).Msg("Alarm deleted")
	as.notify()
	return nil
}

// MarkFired applies the post-ring transition: one-shot alarms are disabled,
// daily alarms stay enabled. The list is persisted either way.
// It returns false if the alarm no longer exists.
func (as *AlarmStore) MarkFired(id string) (models.Alarm, bool) {
	as.mu.Lock()
	alarm := as.findLocked(id)
	if alarm == nil {
		as.mu.Unlock()
		return models.Alarm{}, false
	}
	if alarm.IsOneShot() {
		alarm.Enabled = false
	}
	as.persistLocked()
	result := *alarm
	as.mu.Unlock()

	as.notify()
	return result, true
}

// Import appends alarms from another source. Records with an invalid time
// are skipped; IDs that are empty or already taken are regenerated.
// It returns the number of alarms added.
func (as *AlarmStore) Import(alarms []models.Alarm) int {
	as.mu.Lock()
	added := 0
	for _, a := range alarms {
		if !models.ValidTime(a.Time) {
			continue
		}
		alarm := a
		if alarm.ID == "" || as.findLocked(alarm.ID) != nil {
			alarm.ID = uuid.New().String()
		}
		alarm.Label = models.LabelOrDefault(alarm.Label)
		alarm.Repeat = models.ParseRepeat(string(alarm.Repeat))
		as.alarms = append(as.alarms, &alarm)
		added++
	}
	if added > 0 {
		as.persistLocked()
	}
	as.mu.Unlock()

	if added > 0 {
		as.logger.Info().Int("alarms", added).Msg("Alarms imported")
		as.notify()
	}
	return added
}

func (as *AlarmStore) notify() {
	as.mu.RLock()
	listeners := make([]func(), len(as.listeners))
	copy(listeners, as.listeners)
	as.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
