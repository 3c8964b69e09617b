package watcher

import (
	"log/slog"
	"os/exec"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/vigil/internal/activity"
)

// Feedback tones for mode transitions.
const (
	idleStartFreq = 800.0
	idleEndFreq   = 1500.0
	pauseFreq     = 1200.0
	shortBeepMs   = 150
	mediumBeepMs  = 200
	longBeepMs    = 300
)

// StartIdle switches the watcher to idle mode, committing any in-flight
// work first so the resulting session and the idle period do not overlap.
// It is a no-op when already idle.
func (w *Watcher) StartIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.idle {
		return
	}

	w.flushLocked(true)

	w.idle = true
	w.idleStart = time.Now()

	w.logEvent(activity.EventIdleManualStart, "")
	w.feedback(idleStartFreq, longBeepMs, "Idle mode on")
	w.logger.Info("idle mode activated manually")
}

// EndIdle leaves idle mode, persisting the completed idle period and
// resetting the activity timer. It is a no-op when not idle.
func (w *Watcher) EndIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.idle {
		return
	}

	now := time.Now()
	duration := now.Sub(w.idleStart)

	w.insertIdlePeriod(&activity.IdlePeriod{
		StartTime:       w.idleStart,
		EndTime:         now,
		DurationSeconds: duration.Seconds(),
		Reason:          activity.IdleManual,
	})

	w.idle = false
	w.idleStart = time.Time{}
	w.lastActivity = now

	w.logEvent(activity.EventIdleManualEnd, "")
	w.feedback(idleEndFreq, mediumBeepMs, "Idle mode off")
	w.logger.Info(
		"active mode resumed",
		slog.Duration("idle_duration", duration),
	)
}

// checkAutoIdle switches to idle mode when no activity has been detected
// for longer than the configured threshold. The idle period is back-dated
// to the last observed activity and persisted immediately.
func (w *Watcher) checkAutoIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.idle || w.paused {
		return
	}

	elapsed := time.Since(w.lastActivity)
	if elapsed <= w.opts.Monitor.IdleThreshold {
		return
	}

	w.flushLocked(true)

	now := time.Now()

	w.idle = true
	w.idleStart = now.Add(-elapsed)

	w.insertIdlePeriod(&activity.IdlePeriod{
		StartTime:       w.idleStart,
		EndTime:         now,
		DurationSeconds: elapsed.Seconds(),
		Reason:          activity.IdleAuto,
	})

	w.logEvent(activity.EventIdleAutoStart, elapsed.String())
	w.logger.Info(
		"auto-idle: no activity detected",
		slog.Duration("elapsed", elapsed),
	)
}

// TogglePause flips the paused state. Entering a pause commits in-flight
// work first; leaving it resets the activity timer so the pause itself
// does not trip the auto-idle check. Idle mode is unaffected: when both
// are set, idle keeps priority for sample suppression.
func (w *Watcher) TogglePause() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.paused = !w.paused

	if w.paused {
		w.flushLocked(true)
		w.logEvent(activity.EventPaused, "")
		w.logger.Info("monitoring paused")
	} else {
		w.lastActivity = time.Now()
		w.logEvent(activity.EventResumed, "")
		w.logger.Info("monitoring resumed")
	}

	w.feedback(pauseFreq, shortBeepMs, "Monitoring toggled")
}

// Shutdown commits any pending work, closes out an open idle period, and
// stops the sampling loop. It is safe to call from any goroutine and only
// the first call has an effect.
func (w *Watcher) Shutdown() {
	w.stopOnce.Do(func() {
		w.mu.Lock()

		w.flushLocked(true)

		if w.idle && !w.idleStart.IsZero() {
			now := time.Now()

			w.insertIdlePeriod(&activity.IdlePeriod{
				StartTime:       w.idleStart,
				EndTime:         now,
				DurationSeconds: now.Sub(w.idleStart).Seconds(),
				Reason:          activity.IdleShutdown,
			})
		}

		w.logEvent(activity.EventShutdown, "")
		w.mu.Unlock()

		w.logger.Info("watcher shut down")

		close(w.done)
	})
}

// logEvent records an audit entry for a mode transition. Write failures
// are logged and swallowed.
func (w *Watcher) logEvent(eventType activity.EventType, details string) {
	err := w.db.InsertEvent(&activity.SystemEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Details:   details,
	})
	if err != nil {
		w.logger.Error(
			"failed to log system event",
			slog.String("event", string(eventType)),
			slog.Any("error", err),
		)
	}
}

// insertIdlePeriod persists an idle period, logging and swallowing
// write failures.
func (w *Watcher) insertIdlePeriod(period *activity.IdlePeriod) {
	if err := w.db.InsertIdlePeriod(period); err != nil {
		w.logger.Error("failed to log idle period", slog.Any("error", err))
	}
}

// feedback plays a short tone and raises a desktop notification for a
// mode transition. It runs asynchronously so a slow notification daemon
// cannot block a transition.
func (w *Watcher) feedback(freq float64, durationMs int, title string) {
	if !w.opts.Notifications.Enabled {
		return
	}

	go func() {
		_ = beeep.Beep(freq, durationMs)
		_ = beeep.Notify("Vigil", title, "")
	}()
}

// runSessionCmd executes the configured post-session command, if any.
// The command runs in the background so it cannot delay the sampler.
func (w *Watcher) runSessionCmd() {
	sessionCmd := w.opts.Settings.SessionCmd
	if sessionCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		w.logger.Error(
			"unable to parse session_cmd option",
			slog.Any("error", err),
		)

		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	go func() {
		cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

		if err := cmd.Run(); err != nil {
			w.logger.Error("session_cmd failed", slog.Any("error", err))
		}
	}()
}
