// Package calendar converts alarms to and from iCalendar and works out when
// they ring next.
package calendar

import (
	"sort"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/teambition/rrule-go"
)

// Occurrence is an alarm paired with the next time it rings
type Occurrence struct {
	Alarm models.Alarm
	At    time.Time
}

// NextOccurrence returns the first minute at or after after (truncated to the
// minute) when alarm rings, in after's location. Disabled alarms and alarms
// with an invalid time return the zero time.
func NextOccurrence(alarm models.Alarm, after time.Time) time.Time {
	if !alarm.Enabled {
		return time.Time{}
	}
	return nextAt(alarm, after)
}

// nextAt ignores the enabled flag
func nextAt(alarm models.Alarm, after time.Time) time.Time {
	hm, err := time.Parse(models.TimeLayout, alarm.Time)
	if err != nil {
		return time.Time{}
	}

	after = after.Truncate(time.Minute)
	start := time.Date(after.Year(), after.Month(), after.Day(), hm.Hour(), hm.Minute(), 0, 0, after.Location())

	opt := rrule.ROption{Freq: rrule.DAILY, Dtstart: start}
	if alarm.IsOneShot() {
		// today or tomorrow, whichever comes first
		opt.Count = 2
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return time.Time{}
	}
	return rule.After(after, true)
}

// Upcoming returns the enabled alarms ordered by their next occurrence, at
// most limit of them. limit <= 0 means no limit.
func Upcoming(alarms []models.Alarm, now time.Time, limit int) []Occurrence {
	var out []Occurrence
	for _, a := range alarms {
		at := NextOccurrence(a, now)
		if at.IsZero() {
			continue
		}
		out = append(out, Occurrence{Alarm: a, At: at})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Describe formats an occurrence relative to now, e.g. "07:30 today"
func (o Occurrence) Describe(now time.Time) string {
	day := "today"
	y, m, d := now.Date()
	if oy, om, od := o.At.Date(); oy != y || om != m || od != d {
		day = "tomorrow"
	}
	return o.At.Format(models.TimeLayout) + " " + day
}
