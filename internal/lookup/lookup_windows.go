//go:build windows

package lookup

import (
	"path/filepath"
	"syscall"
	"unsafe"
)

var (
	user32                        = syscall.NewLazySystemDLL("user32.dll")
	kernel32                      = syscall.NewLazySystemDLL("kernel32.dll")
	procGetForegroundWindow       = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId  = user32.NewProc("GetWindowThreadProcessId")
	procQueryFullProcessImageName = kernel32.NewProc("QueryFullProcessImageNameW")
)

const processQueryLimitedInformation = 0x1000

// New returns the Win32 lookup implementation, which resolves the owning
// process through the window's PID rather than by title matching.
func New() Func {
	return win32Lookup
}

func win32Lookup() (*Window, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, nil
	}

	title := windowText(hwnd)
	if title == "" {
		return nil, nil
	}

	processName := processNameFromWindow(hwnd)
	if processName == "" {
		// PID lookup failed, e.g. the process exited mid-sample
		processName = "Unknown.exe"
	}

	return newWindow(processName, title), nil
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 512)

	n, _, _ := procGetWindowTextW.Call(
		hwnd,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if n == 0 {
		return ""
	}

	return syscall.UTF16ToString(buf[:n])
}

func processNameFromWindow(hwnd uintptr) string {
	var pid uint32

	_, _, _ = procGetWindowThreadProcessId.Call(
		hwnd,
		uintptr(unsafe.Pointer(&pid)),
	)
	if pid == 0 {
		return ""
	}

	handle, err := syscall.OpenProcess(
		processQueryLimitedInformation,
		false,
		pid,
	)
	if err != nil {
		return ""
	}

	defer func() {
		_ = syscall.CloseHandle(handle)
	}()

	buf := make([]uint16, syscall.MAX_PATH)
	size := uint32(len(buf))

	ret, _, _ := procQueryFullProcessImageName.Call(
		uintptr(handle),
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)),
	)
	if ret == 0 {
		return ""
	}

	return filepath.Base(syscall.UTF16ToString(buf[:size]))
}
