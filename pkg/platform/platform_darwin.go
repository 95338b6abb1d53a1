//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

int isAppActive() {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp() {
    [NSApp activateIgnoringOtherApps:YES];
}

void setDockIconVisible(int visible) {
    if (visible) {
        [NSApp setActivationPolicy:NSApplicationActivationPolicyRegular];
    } else {
        [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    }
}
*/
import "C"

// IsAppActive reports whether the alarm clock owns keyboard focus
func IsAppActive() bool {
	return C.isAppActive() == 1
}

// ActivateApp brings the application in front of other apps
func ActivateApp() {
	C.activateApp()
}

// SetDockIconVisible hides the Dock icon while the app lives only in the
// menu bar, and shows it again when a window opens.
func SetDockIconVisible(visible bool) {
	v := C.int(0)
	if visible {
		v = 1
	}
	C.setDockIconVisible(v)
}
