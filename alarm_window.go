package main

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/platform"
	"github.com/borgmon/alarm-clock/pkg/store"
	"github.com/borgmon/alarm-clock/pkg/ui/components"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

// AlarmWindow is the main window: clock, add form, alarm list and actions
type AlarmWindow struct {
	window fyne.Window
	app    fyne.App
	clock  *AlarmClock
	prefs  *store.ConfigStore

	// saved settings, without command-line overrides
	settings *models.Config

	clockLabel  *widget.Label
	timeEntry   *widget.Entry
	labelEntry  *widget.Entry
	dailyCheck  *widget.Check
	list        *components.AlarmList
	toggleBtn   *widget.Button
	editBtn     *widget.Button
	deleteBtn   *widget.Button
	statusLabel *widget.Label
}

func NewAlarmWindow(app fyne.App, clock *AlarmClock, prefs *store.ConfigStore, settings *models.Config) *AlarmWindow {
	aw := &AlarmWindow{
		app:      app,
		clock:    clock,
		prefs:    prefs,
		settings: settings,
	}

	aw.window = app.NewWindow(appName)
	aw.window.Resize(fyne.NewSize(520, 400))
	aw.buildUI()
	aw.refresh()

	// Keep running in the tray when there is one
	if _, ok := app.(desktop.App); ok {
		aw.window.SetCloseIntercept(func() {
			aw.window.Hide()
			platform.SetDockIconVisible(false)
		})
	}
	aw.window.SetMaster()

	return aw
}

func (aw *AlarmWindow) buildUI() {
	aw.clockLabel = widget.NewLabel("")
	aw.clockLabel.Alignment = fyne.TextAlignCenter
	aw.clockLabel.TextStyle = fyne.TextStyle{Bold: true}
	aw.tickClock(time.Now())
	go aw.runClock()

	aw.timeEntry = widget.NewEntry()
	aw.timeEntry.SetText("07:30")
	aw.timeEntry.SetPlaceHolder("HH:MM")
	aw.timeEntry.OnSubmitted = func(string) { aw.addAlarm() }

	aw.labelEntry = widget.NewEntry()
	aw.labelEntry.SetText(models.DefaultLabel)
	aw.labelEntry.OnSubmitted = func(string) { aw.addAlarm() }

	aw.dailyCheck = widget.NewCheck("Repeat daily", nil)

	addButton := widget.NewButtonWithIcon("Add Alarm", theme.ContentAddIcon(), aw.addAlarm)
	addButton.Importance = widget.HighImportance

	addForm := container.NewBorder(nil, nil,
		container.NewHBox(widget.NewLabel("Time (HH:MM):"), container.NewGridWrap(fyne.NewSize(80, aw.timeEntry.MinSize().Height), aw.timeEntry), widget.NewLabel("Label:")),
		container.NewHBox(aw.dailyCheck, addButton),
		aw.labelEntry,
	)

	var listObj fyne.CanvasObject
	aw.list, listObj = components.NewAlarmList(func(_ models.Alarm, ok bool) {
		aw.setActionsEnabled(ok)
	})

	aw.toggleBtn = widget.NewButton("Toggle Enable", aw.toggleSelected)
	aw.editBtn = widget.NewButtonWithIcon("Edit Selected", theme.DocumentCreateIcon(), aw.editSelected)
	aw.deleteBtn = widget.NewButtonWithIcon("Delete Selected", theme.DeleteIcon(), aw.deleteSelected)
	aw.deleteBtn.Importance = widget.DangerImportance
	aw.setActionsEnabled(false)

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), aw.showSettingsDialog)
	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), aw.showImportDialog)
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), aw.showExportDialog)

	actions := container.NewBorder(nil, nil,
		container.NewHBox(aw.toggleBtn, aw.editBtn, aw.deleteBtn),
		container.NewHBox(importBtn, exportBtn, settingsBtn),
	)

	aw.statusLabel = widget.NewLabel("Ready")
	aw.statusLabel.Alignment = fyne.TextAlignCenter
	aw.statusLabel.Importance = widget.LowImportance

	top := container.NewVBox(aw.clockLabel, addForm, widget.NewSeparator())
	bottom := container.NewVBox(widget.NewSeparator(), actions, aw.statusLabel)

	aw.window.SetContent(container.NewPadded(container.NewBorder(top, bottom, nil, nil, listObj)))
}

func (aw *AlarmWindow) runClock() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for now := range ticker.C {
		fyne.Do(func() {
			aw.tickClock(now)
		})
	}
}

func (aw *AlarmWindow) tickClock(now time.Time) {
	aw.clockLabel.SetText("Current Time: " + now.Format(time.TimeOnly))
}

// refresh reloads the list from the store
func (aw *AlarmWindow) refresh() {
	aw.list.SetAlarms(aw.clock.store.List())
}

func (aw *AlarmWindow) setActionsEnabled(enabled bool) {
	for _, b := range []*widget.Button{aw.toggleBtn, aw.editBtn, aw.deleteBtn} {
		if b == nil {
			continue
		}
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (aw *AlarmWindow) setStatus(text string, kind statusKind) {
	switch kind {
	case statusOK:
		aw.statusLabel.Importance = widget.SuccessImportance
	case statusError:
		aw.statusLabel.Importance = widget.DangerImportance
	default:
		aw.statusLabel.Importance = widget.LowImportance
	}
	aw.statusLabel.SetText(text)
}

func (aw *AlarmWindow) addAlarm() {
	repeat := models.RepeatNone
	if aw.dailyCheck.Checked {
		repeat = models.RepeatDaily
	}

	alarm, err := aw.clock.store.Add(aw.timeEntry.Text, aw.labelEntry.Text, repeat)
	if err != nil {
		aw.showInvalidTime()
		return
	}
	aw.setStatus(fmt.Sprintf("Added alarm %s (%s)", alarm.Time, alarm.Label), statusOK)
}

func (aw *AlarmWindow) selected(action string) (models.Alarm, bool) {
	alarm, ok := aw.list.Selected()
	if !ok {
		dialog.ShowInformation("Select Alarm", fmt.Sprintf("Please select an alarm to %s.", action), aw.window)
	}
	return alarm, ok
}

func (aw *AlarmWindow) toggleSelected() {
	alarm, ok := aw.selected("toggle")
	if !ok {
		return
	}
	updated, err := aw.clock.store.Toggle(alarm.ID)
	if err != nil {
		aw.showStaleSelection(err)
		return
	}
	state := "disabled"
	if updated.Enabled {
		state = "enabled"
	}
	aw.setStatus(fmt.Sprintf("Alarm %s %s", updated.Time, state), statusInfo)
}

func (aw *AlarmWindow) editSelected() {
	alarm, ok := aw.selected("edit")
	if !ok {
		return
	}
	aw.showEditDialog(alarm)
}

func (aw *AlarmWindow) deleteSelected() {
	alarm, ok := aw.selected("delete")
	if !ok {
		return
	}
	aw.showDeleteDialog(alarm)
}

// showStaleSelection handles an alarm removed between selection and action,
// for example by an outside edit of the alarms file
func (aw *AlarmWindow) showStaleSelection(err error) {
	if errors.Is(err, store.ErrNotFound) {
		aw.setStatus("That alarm no longer exists", statusError)
		aw.refresh()
		return
	}
	dialog.ShowError(err, aw.window)
}

func (aw *AlarmWindow) Show() {
	platform.BringToFront(aw.window)
}
