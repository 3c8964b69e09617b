//go:build !unix

package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ayoisaiah/vigil/watcher"
)

// registerSignals wires the shutdown signals. Idle and pause toggles have
// no signal equivalent on this platform.
func registerSignals(w *watcher.Watcher) {
	sigChan := make(chan os.Signal, 1)

	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		w.Shutdown()
	}()
}
