package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const (
	ProductID = "-//borgmon//Alarm Clock//EN"

	// floating local time, no TZID
	floatingLayout = "20060102T150405"

	statusCancelled = "CANCELLED"
)

// Export writes alarms as an iCalendar document. Each alarm becomes a VEVENT
// starting at its next occurrence after now, with an audio VALARM.
func Export(w io.Writer, alarms []models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, a := range alarms {
		event, err := alarmEvent(a, now)
		if err != nil {
			return fmt.Errorf("alarm %s: %w", a.ID, err)
		}
		cal.Children = append(cal.Children, event)
	}

	return ical.NewEncoder(w).Encode(cal)
}

func alarmEvent(a models.Alarm, now time.Time) (*ical.Component, error) {
	start := nextAt(a, now)
	if start.IsZero() {
		return nil, fmt.Errorf("invalid time %q", a.Time)
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, a.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetText(ical.PropSummary, models.LabelOrDefault(a.Label))

	dtstart := ical.NewProp(ical.PropDateTimeStart)
	dtstart.Value = start.Format(floatingLayout)
	event.Props.Set(dtstart)

	if a.Repeat == models.RepeatDaily {
		rule := ical.NewProp(ical.PropRecurrenceRule)
		rule.Value = (&rrule.ROption{Freq: rrule.DAILY}).RRuleString()
		event.Props.Set(rule)
	}

	if !a.Enabled {
		event.Props.SetText(ical.PropStatus, statusCancelled)
	}

	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "AUDIO")
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	alarm.Props.Set(trigger)
	event.Children = append(event.Children, alarm)

	return event.Component, nil
}
