package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/borgmon/alarm-clock/pkg/calendar"
)

const trayUpcoming = 5

type systemTray struct {
	desk  desktop.App
	clock *AlarmClock
	aw    *AlarmWindow
	quit  func()
}

// newSystemTray installs the tray menu. Without tray support it does nothing.
func newSystemTray(app fyne.App, clock *AlarmClock, aw *AlarmWindow) *systemTray {
	st := &systemTray{clock: clock, aw: aw, quit: app.Quit}
	if desk, ok := app.(desktop.App); ok {
		st.desk = desk
		st.refresh()
		go st.runRefresh()
	}
	return st
}

// runRefresh keeps "today" and "tomorrow" current
func (st *systemTray) runRefresh() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		fyne.Do(st.refresh)
	}
}

func (st *systemTray) refresh() {
	if st.desk == nil {
		return
	}

	menuItems := []*fyne.MenuItem{}

	now := time.Now()
	upcoming := calendar.Upcoming(st.clock.store.List(), now, trayUpcoming)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, o := range upcoming {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s", o.Describe(now), truncateString(o.Alarm.Label, 35)), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}
	} else {
		item := fyne.NewMenuItem("No alarms set", nil)
		item.Disabled = true
		menuItems = append(menuItems, item)
	}

	quitItem := fyne.NewMenuItem("Quit", st.quit)
	quitItem.IsQuit = true

	menuItems = append(menuItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Alarms", st.aw.Show),
		quitItem,
	)

	st.desk.SetSystemTrayMenu(fyne.NewMenu(appName, menuItems...))
}

// truncateString truncates s to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
