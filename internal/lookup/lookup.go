// Package lookup resolves the foreground window and the process that owns
// it. Platform implementations live here so the watcher core stays free
// of OS-specific code; tests inject their own Func.
package lookup

import (
	"errors"
	"strings"
	"time"
)

// Window describes the currently focused desktop window.
type Window struct {
	// ProcessName is the executable name of the owning process, e.g.
	// "code.exe" or "firefox". Empty when the process could not be
	// resolved.
	ProcessName string
	// ProcessKey is the lowercased ProcessName used for table lookups.
	ProcessKey string
	// Title is the window title.
	Title string
}

// Func reports the focused window. A nil Window with a nil error means no
// window currently has focus. Implementations must return well within the
// sampling interval.
type Func func() (*Window, error)

// ErrUnsupported indicates that no foreground-window implementation
// exists for the current platform.
var ErrUnsupported = errors.New(
	"foreground window lookup is not supported on this platform",
)

// execTimeout bounds the helper subprocesses used on platforms without a
// direct API so a hung call cannot stall the sampling loop.
const execTimeout = 800 * time.Millisecond

// newWindow builds a Window from a raw process name and title, filling in
// the lowercased key.
func newWindow(processName, title string) *Window {
	processName = strings.TrimSpace(processName)
	title = strings.TrimSpace(title)

	if processName == "" && title == "" {
		return nil
	}

	return &Window{
		ProcessName: processName,
		ProcessKey:  strings.ToLower(processName),
		Title:       title,
	}
}
