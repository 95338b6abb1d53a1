//go:build !darwin

package platform

// IsAppActive always returns true outside macOS
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op outside macOS; RequestFocus on the window is enough
func ActivateApp() {}

// SetDockIconVisible is a no-op outside macOS
func SetDockIconVisible(bool) {}
