package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Themes
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Config holds application configuration
type Config struct {
	AlarmsFile   string `yaml:"alarms_file" json:"alarms_file"`     // path of the alarms JSON file
	SoundFile    string `yaml:"sound_file" json:"sound_file"`       // optional custom alarm sound
	AlertSeconds int    `yaml:"alert_seconds" json:"alert_seconds"` // how long the sound plays
	Theme        string `yaml:"theme" json:"theme"`                 // system, light or dark
	AutoStart    bool   `yaml:"auto_start" json:"auto_start"`       // launch on login
	LogLevel     string `yaml:"log_level" json:"log_level"`         // debug, info, warn, error
}

// NewDefaultConfig returns a Config with the default values
func NewDefaultConfig() *Config {
	return &Config{
		AlarmsFile:   "alarms.json",
		AlertSeconds: 3,
		Theme:        ThemeSystem,
		LogLevel:     "info",
	}
}

// AlertDuration returns AlertSeconds as a duration
func (c *Config) AlertDuration() time.Duration {
	return time.Duration(c.AlertSeconds) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AlarmsFile, validation.Required),
		validation.Field(&c.AlertSeconds, validation.Required, validation.Min(1), validation.Max(60)),
		validation.Field(&c.Theme, validation.In(ThemeSystem, ThemeLight, ThemeDark)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}
