package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Repeat controls what happens to an alarm after it rings
type Repeat string

const (
	RepeatNone  Repeat = "none"  // One-shot, disabled after ringing
	RepeatDaily Repeat = "daily" // Rings every day at the same time
)

// DefaultLabel is used when an alarm has no label
const DefaultLabel = "Alarm"

// TimeLayout is the wall-clock format alarms are stored and matched in
const TimeLayout = "15:04"

// ErrInvalidTime is returned when a time string is not HH:MM (24-hour)
var ErrInvalidTime = errors.New("enter time in HH:MM (24-hour), e.g., 07:30")

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Alarm is a single persisted alarm
type Alarm struct {
	ID      string `json:"id"`      // Stable identifier (UUID)
	Time    string `json:"time"`    // HH:MM, 24-hour
	Label   string `json:"label"`   // Free text shown when ringing
	Repeat  Repeat `json:"repeat"`  // none or daily
	Enabled bool   `json:"enabled"` // Disabled alarms never ring
}

// ValidTime reports whether s is a 24-hour HH:MM time
func ValidTime(s string) bool {
	return hhmm.MatchString(s)
}

// CheckTime trims s and returns it, or an error wrapping ErrInvalidTime
func CheckTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !ValidTime(s) {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	return s, nil
}

// ParseRepeat maps any value other than "daily" to RepeatNone
func ParseRepeat(s string) Repeat {
	if Repeat(strings.ToLower(strings.TrimSpace(s))) == RepeatDaily {
		return RepeatDaily
	}
	return RepeatNone
}

// LabelOrDefault returns the trimmed label, or DefaultLabel if it is empty
func LabelOrDefault(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return DefaultLabel
}

// IsOneShot returns true if the alarm disables itself after ringing
func (a Alarm) IsOneShot() bool {
	return a.Repeat != RepeatDaily
}

// RepeatText returns the display form of the repeat mode
func (a Alarm) RepeatText() string {
	if a.Repeat == RepeatDaily {
		return "daily"
	}
	return "once"
}

// Validate checks the alarm invariants
func (a Alarm) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Time, validation.Required, validation.Match(hhmm).Error(ErrInvalidTime.Error())),
		validation.Field(&a.Repeat, validation.In(RepeatNone, RepeatDaily)),
	)
}

func (a Alarm) String() string {
	state := "ON"
	if !a.Enabled {
		state = "OFF"
	}
	return fmt.Sprintf("%s  %-3s  %-5s  %s", a.Time, state, a.RepeatText(), a.Label)
}
