//go:build unix

package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ayoisaiah/vigil/watcher"
)

// registerSignals wires OS signals to watcher operations: SIGINT and
// SIGTERM shut the watcher down, SIGUSR1 toggles manual idle mode, and
// SIGUSR2 toggles the monitoring pause.
func registerSignals(w *watcher.Watcher) {
	sigChan := make(chan os.Signal, 1)

	signal.Notify(
		sigChan,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	go func() {
		for sig := range sigChan {
			switch sig {
			case syscall.SIGUSR1:
				if w.Idle() {
					w.EndIdle()
				} else {
					w.StartIdle()
				}
			case syscall.SIGUSR2:
				w.TogglePause()
			default:
				w.Shutdown()
				return
			}
		}
	}()
}
