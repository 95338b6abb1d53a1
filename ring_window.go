package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/platform"
	"github.com/borgmon/alarm-clock/pkg/ui/components"
)

const dismissHold = time.Second

// showRingWindow tells the user an alarm went off. Must run on the fyne thread.
func showRingWindow(app fyne.App, alarm models.Alarm, logger zerolog.Logger) {
	message := fmt.Sprintf("%s, it's %s", alarm.Label, alarm.Time)
	app.SendNotification(fyne.NewNotification("ALARM!", message))

	w := app.NewWindow("ALARM!")

	title := canvas.NewText(alarm.Label, nil)
	title.TextSize = 32
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel("It's " + alarm.Time)
	timeLabel.Alignment = fyne.TextAlignCenter

	next := "This alarm is now off."
	if alarm.Repeat == models.RepeatDaily {
		next = "Rings again tomorrow at " + alarm.Time + "."
	}
	nextLabel := widget.NewLabel(next)
	nextLabel.Alignment = fyne.TextAlignCenter
	nextLabel.Importance = widget.LowImportance

	dismiss := components.NewHoldButton("Hold to dismiss", dismissHold, func() {
		logger.Debug().Str("id", alarm.ID).Msg("Alarm dismissed")
		w.Close()
	})

	w.SetContent(container.NewCenter(container.NewVBox(
		container.NewPadded(title),
		timeLabel,
		nextLabel,
		dismiss,
	)))

	platform.BringToFront(w)
}
