package calendar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

var ErrNotCalendar = errors.New("not an iCalendar document")

// Import reads VEVENTs back into alarms. The alarm time is the local HH:MM of
// DTSTART. Events without a usable start are skipped. Returned alarms keep
// the event UID as their ID; the store replaces missing or clashing IDs.
func Import(r io.Reader) ([]models.Alarm, error) {
	br := bufio.NewReader(r)
	if err := checkCalendarHeader(br); err != nil {
		return nil, err
	}

	var alarms []models.Alarm
	dec := ical.NewDecoder(br)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			if a, ok := parseEvent(comp); ok {
				alarms = append(alarms, a)
			}
		}
	}
	return alarms, nil
}

func checkCalendarHeader(br *bufio.Reader) error {
	head, _ := br.Peek(64)
	trimmed := strings.TrimLeft(string(head), "\ufeff \t\r\n")
	if !strings.HasPrefix(strings.ToUpper(trimmed), "BEGIN:VCALENDAR") {
		return ErrNotCalendar
	}
	return nil
}

func parseEvent(comp *ical.Component) (models.Alarm, bool) {
	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil || startProp.ValueType() == ical.ValueDate {
		return models.Alarm{}, false
	}
	start, err := parseDateTimeProperty(startProp)
	if err != nil {
		return models.Alarm{}, false
	}

	alarm := models.Alarm{
		Time:    start.Format(models.TimeLayout),
		Label:   models.DefaultLabel,
		Repeat:  models.RepeatNone,
		Enabled: true,
	}

	if uid := comp.Props.Get(ical.PropUID); uid != nil {
		alarm.ID = uid.Value
	}
	if summary, err := comp.Props.Text(ical.PropSummary); err == nil && summary != "" {
		alarm.Label = summary
	}
	if status := comp.Props.Get(ical.PropStatus); status != nil && strings.EqualFold(status.Value, statusCancelled) {
		alarm.Enabled = false
	}
	if rule := comp.Props.Get(ical.PropRecurrenceRule); rule != nil {
		if opt, err := rrule.StrToROption(rule.Value); err == nil && opt.Freq == rrule.DAILY && opt.Interval <= 1 {
			alarm.Repeat = models.RepeatDaily
		}
	}
	return alarm, true
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(propLocation(prop)); err == nil {
		return t.In(time.Local), nil
	}

	// Some producers emit values go-ical does not accept
	for _, layout := range []string{floatingLayout, "20060102T1504", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, prop.Value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}
