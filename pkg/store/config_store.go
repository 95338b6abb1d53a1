package store

import (
	"fyne.io/fyne/v2"
	"github.com/borgmon/alarm-clock/pkg/models"
)

// Preference keys
const (
	prefTheme        = "theme"
	prefSoundFile    = "sound_file"
	prefAlertSeconds = "alert_seconds"
	prefAutoStart    = "auto_start"
)

// ConfigStore handles user settings persistence using Fyne preferences
type ConfigStore struct {
	prefs fyne.Preferences
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(prefs fyne.Preferences) *ConfigStore {
	return &ConfigStore{prefs: prefs}
}

// Load overlays the saved user settings on a copy of base.
// Settings never saved keep the value from base.
func (cs *ConfigStore) Load(base *models.Config) *models.Config {
	config := *base

	config.Theme = cs.prefs.StringWithFallback(prefTheme, base.Theme)
	config.SoundFile = cs.prefs.StringWithFallback(prefSoundFile, base.SoundFile)
	config.AlertSeconds = cs.prefs.IntWithFallback(prefAlertSeconds, base.AlertSeconds)
	config.AutoStart = cs.prefs.BoolWithFallback(prefAutoStart, base.AutoStart)

	// Fall back to base for anything out of range
	if config.Validate() != nil {
		return base
	}
	return &config
}

// Save saves the user settings to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	cs.prefs.SetString(prefTheme, config.Theme)
	cs.prefs.SetString(prefSoundFile, config.SoundFile)
	cs.prefs.SetInt(prefAlertSeconds, config.AlertSeconds)
	cs.prefs.SetBool(prefAutoStart, config.AutoStart)
}
