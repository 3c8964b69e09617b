//go:build darwin

package lookup

import (
	"context"
	"os/exec"
	"strings"
)

// frontmostScript reports the frontmost application and its front window
// title on two lines. The window title is empty for apps without windows.
const frontmostScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set windowTitle to ""
	try
		set windowTitle to name of front window of frontApp
	end try
end tell
return appName & "\n" & windowTitle
`

// New returns the macOS lookup implementation, which queries System
// Events through osascript.
func New() Func {
	return osascriptLookup
}

func osascriptLookup() (*Window, error) {
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", frontmostScript).
		Output()
	if err != nil {
		return nil, nil
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 2)
	if len(lines) == 0 || lines[0] == "" {
		return nil, nil
	}

	processName := lines[0]

	var title string
	if len(lines) == 2 {
		title = lines[1]
	}

	if title == "" {
		title = processName
	}

	return newWindow(processName, title), nil
}
