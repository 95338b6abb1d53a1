package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/alarm-clock/pkg/models"
)

// AlarmList shows alarms in stored order and tracks the selection by alarm
// ID, so a refresh that reorders or removes rows keeps it consistent.
type AlarmList struct {
	list       *widget.List
	alarms     []models.Alarm
	selectedID string
	onSelect   func(models.Alarm, bool)
}

// NewAlarmList creates the list. onSelect, if set, runs whenever the
// selection changes; ok is false when nothing is selected.
func NewAlarmList(onSelect func(alarm models.Alarm, ok bool)) (*AlarmList, fyne.CanvasObject) {
	al := &AlarmList{onSelect: onSelect}

	al.list = widget.NewList(
		func() int {
			return len(al.alarms)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("00:00  template  (once)  [on]")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(al.alarms) {
				o.(*widget.Label).SetText(al.alarms[i].String())
			}
		})

	al.list.OnSelected = func(id widget.ListItemID) {
		if id < len(al.alarms) {
			al.selectedID = al.alarms[id].ID
			al.notify()
		}
	}
	al.list.OnUnselected = func(widget.ListItemID) {
		al.selectedID = ""
		al.notify()
	}

	listScroll := container.NewScroll(al.list)
	listScroll.SetMinSize(fyne.NewSize(0, 150))

	return al, listScroll
}

// SetAlarms replaces the displayed alarms. The selection follows its alarm;
// if that alarm is gone the selection is cleared.
func (al *AlarmList) SetAlarms(alarms []models.Alarm) {
	al.alarms = alarms
	al.list.Refresh()

	if al.selectedID == "" {
		return
	}
	for i, a := range alarms {
		if a.ID == al.selectedID {
			al.list.Select(i)
			al.notify()
			return
		}
	}
	al.list.UnselectAll()
	al.selectedID = ""
	al.notify()
}

// Selected returns the selected alarm
func (al *AlarmList) Selected() (models.Alarm, bool) {
	for _, a := range al.alarms {
		if a.ID == al.selectedID {
			return a, true
		}
	}
	return models.Alarm{}, false
}

// Len returns the number of rows
func (al *AlarmList) Len() int {
	return len(al.alarms)
}

func (al *AlarmList) notify() {
	if al.onSelect != nil {
		a, ok := al.Selected()
		al.onSelect(a, ok)
	}
}
