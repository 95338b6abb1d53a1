// Package platform holds the OS specific bits of window focus handling.
package platform

import "fyne.io/fyne/v2"

// BringToFront shows w and makes sure it is in front of other applications
func BringToFront(w fyne.Window) {
	SetDockIconVisible(true)
	w.Show()
	if !IsAppActive() {
		ActivateApp()
	}
	w.RequestFocus()
}
