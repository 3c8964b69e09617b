//go:build linux

package lookup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// New returns the X11 lookup implementation, which shells out to xdotool
// and reads the owning process name from procfs.
func New() Func {
	return xdotoolLookup
}

func xdotoolLookup() (*Window, error) {
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	out, err := exec.CommandContext(
		ctx,
		"xdotool",
		"getactivewindow",
		"getwindowname",
		"getactivewindow",
		"getwindowpid",
	).Output()
	if err != nil {
		// no active window or xdotool missing: report nothing focused
		return nil, nil
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 2)
	if len(lines) == 0 || lines[0] == "" {
		return nil, nil
	}

	title := lines[0]

	var processName string

	if len(lines) == 2 {
		pid, err := strconv.Atoi(strings.TrimSpace(lines[1]))
		if err == nil {
			processName = processNameFromPID(pid)
		}
	}

	// a window without a resolvable process is still a valid observation
	if processName == "" && title != "" {
		processName = "unknown"
	}

	return newWindow(processName, title), nil
}

// processNameFromPID reads the executable name for a pid from procfs.
func processNameFromPID(pid int) string {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(comm))
}
