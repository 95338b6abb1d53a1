package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/alarm-clock/pkg/calendar"
	"github.com/borgmon/alarm-clock/pkg/models"
)

// Shown for any time that is not HH:MM
const invalidTimeMessage = "Enter time in HH:MM (24-hour), e.g., 07:30"

func (aw *AlarmWindow) showInvalidTime() {
	dialog.ShowError(errors.New(invalidTimeMessage), aw.window)
	aw.setStatus("Invalid time", statusError)
}

func (aw *AlarmWindow) showEditDialog(alarm models.Alarm) {
	timeEntry := widget.NewEntry()
	timeEntry.SetText(alarm.Time)
	timeEntry.SetPlaceHolder("HH:MM")

	labelEntry := widget.NewEntry()
	labelEntry.SetText(alarm.Label)

	dailyCheck := widget.NewCheck("Repeat daily", nil)
	dailyCheck.SetChecked(alarm.Repeat == models.RepeatDaily)

	items := []*widget.FormItem{
		widget.NewFormItem("Time", timeEntry),
		widget.NewFormItem("Label", labelEntry),
		widget.NewFormItem("", dailyCheck),
	}

	dialog.ShowForm("Edit Alarm", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		repeat := models.RepeatNone
		if dailyCheck.Checked {
			repeat = models.RepeatDaily
		}

		updated, err := aw.clock.store.Edit(alarm.ID, timeEntry.Text, labelEntry.Text, repeat)
		if errors.Is(err, models.ErrInvalidTime) {
			aw.showInvalidTime()
			return
		}
		if err != nil {
			aw.showStaleSelection(err)
			return
		}
		aw.setStatus(fmt.Sprintf("Alarm updated: %s (%s)", updated.Time, updated.Label), statusOK)
	}, aw.window)
}

func (aw *AlarmWindow) showDeleteDialog(alarm models.Alarm) {
	msg := fmt.Sprintf("Delete '%s' at %s?", alarm.Label, alarm.Time)
	dialog.ShowConfirm("Delete Alarm", msg, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := aw.clock.store.Delete(alarm.ID); err != nil {
			aw.showStaleSelection(err)
			return
		}
		aw.setStatus("Alarm deleted", statusInfo)
	}, aw.window)
}

func (aw *AlarmWindow) showSettingsDialog() {
	current := *aw.settings

	themeSelect := widget.NewSelect([]string{models.ThemeSystem, models.ThemeLight, models.ThemeDark}, nil)
	themeSelect.SetSelected(current.Theme)

	soundEntry := widget.NewEntry()
	soundEntry.SetText(current.SoundFile)
	soundEntry.SetPlaceHolder("Built-in sounds")
	browseBtn := widget.NewButton("Browse...", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			defer rc.Close()
			soundEntry.SetText(rc.URI().Path())
		}, aw.window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".wav", ".mp3", ".ogg", ".oga", ".aiff"}))
		fd.Show()
	})

	secondsEntry := widget.NewEntry()
	secondsEntry.SetText(strconv.Itoa(current.AlertSeconds))
	secondsEntry.Validator = func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 60 {
			return errors.New("1 to 60 seconds")
		}
		return nil
	}

	autoStartCheck := widget.NewCheck("Start on login", nil)
	autoStartCheck.SetChecked(current.AutoStart)

	items := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Sound file", container.NewBorder(nil, nil, nil, browseBtn, soundEntry)),
		widget.NewFormItem("Alert seconds", secondsEntry),
		widget.NewFormItem("", autoStartCheck),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		updated := current
		updated.Theme = themeSelect.Selected
		updated.SoundFile = soundEntry.Text
		updated.AlertSeconds, _ = strconv.Atoi(secondsEntry.Text)
		updated.AutoStart = autoStartCheck.Checked

		if err := updated.Validate(); err != nil {
			dialog.ShowError(err, aw.window)
			return
		}
		aw.applySettings(&updated)
	}, aw.window)
	d.Resize(fyne.NewSize(460, d.MinSize().Height))
	d.Show()
}

func (aw *AlarmWindow) applySettings(cfg *models.Config) {
	aw.prefs.Save(cfg)
	aw.settings = cfg
	applyTheme(aw.app, cfg.Theme)
	if err := setupAutostart(cfg.AutoStart, aw.clock.logger); err != nil {
		aw.clock.logger.Warn().Err(err).Msg("Failed to update autostart")
	}
	aw.clock.ApplyConfig(cfg)
	aw.setStatus("Settings saved", statusOK)
}

func (aw *AlarmWindow) showImportDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, aw.window)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		alarms, err := calendar.Import(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("import %s: %w", rc.URI().Name(), err), aw.window)
			return
		}
		n := aw.clock.store.Import(alarms)
		aw.setStatus(fmt.Sprintf("Imported %d alarms", n), statusOK)
	}, aw.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	fd.Show()
}

func (aw *AlarmWindow) showExportDialog() {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, aw.window)
			return
		}
		if wc == nil {
			return
		}

		err = calendar.Export(wc, aw.clock.store.List(), time.Now())
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			dialog.ShowError(fmt.Errorf("export: %w", err), aw.window)
			return
		}
		aw.setStatus("Exported to "+wc.URI().Name(), statusOK)
	}, aw.window)
	fd.SetFileName("alarms.ics")
	fd.Show()
}
