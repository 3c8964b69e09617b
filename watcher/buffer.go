package watcher

import (
	"log/slog"
	"time"

	"github.com/ayoisaiah/vigil/internal/activity"
)

// groupKey identifies one candidate activity within a flush window.
type groupKey struct {
	processName string
	category    activity.Category
	subcategory string
}

// Record appends a sample to the buffer. Samples are dropped while the
// watcher is idle or paused so that concurrent event sources cannot leak
// observations into a suppressed window.
func (w *Watcher) Record(sample activity.Sample) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.idle || w.paused {
		return
	}

	w.buffer = append(w.buffer, sample)
}

// Flush aggregates the buffer into a session record and persists it. It
// returns the committed session, or nil when the window produced none:
// the buffer was empty, the watcher was idle or paused, the flush
// interval had not yet elapsed (unforced flushes only), or no sample had
// a detectable process.
//
// The buffer is cleared on every flush that proceeds past the interval
// check, even when persistence fails: losing a window is preferred over
// stalling the sampler.
func (w *Watcher) Flush(force bool) *activity.Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flushLocked(force)
}

// flushLocked implements Flush. Callers must hold w.mu.
func (w *Watcher) flushLocked(force bool) *activity.Session {
	now := time.Now()

	if len(w.buffer) == 0 || w.idle || w.paused {
		w.buffer = w.buffer[:0]
		return nil
	}

	// unforced flushes below the interval are rejected with the buffer
	// intact, enforcing the minimum session granularity
	if !force && now.Sub(w.lastFlush) < w.opts.Monitor.FlushInterval {
		return nil
	}

	totalSamples := len(w.buffer)

	// group samples with a detectable process by (process, category,
	// subcategory), preserving first-seen order for the tie-break below
	var (
		order  []groupKey
		groups = make(map[groupKey]*groupStats)
		valid  int
	)

	for i := range w.buffer {
		sample := w.buffer[i]
		if sample.ProcessName == "" {
			continue
		}

		valid++

		key := groupKey{
			processName: sample.ProcessName,
			category:    sample.Category,
			subcategory: sample.Subcategory,
		}

		g, ok := groups[key]
		if !ok {
			g = &groupStats{first: sample}
			groups[key] = g

			order = append(order, key)
		}

		g.count++
	}

	w.buffer = w.buffer[:0]
	w.lastFlush = now

	if valid == 0 {
		w.logger.Warn(
			"skipping session flush: no sample had a detectable process",
			slog.Int("samples", totalSamples),
		)

		return nil
	}

	// the dominant activity is the group with the highest sample count;
	// on a tie the group observed first wins
	var dominant *groupStats

	for _, key := range order {
		if g := groups[key]; dominant == nil || g.count > dominant.count {
			dominant = g
		}
	}

	lead := dominant.first

	duration := w.opts.Monitor.FlushInterval.Seconds()

	// samples with no detected process still count against the ratio,
	// penalizing windows with intermittent untrackable activity
	ratio := float64(valid) / float64(totalSamples)

	displayName := lead.Subcategory
	if displayName == "" {
		displayName = lead.ProcessName
	}

	sess := &activity.Session{
		StartTime:         now.Add(-w.opts.Monitor.FlushInterval),
		ProcessName:       lead.ProcessName,
		DisplayName:       displayName,
		WindowTitle:       lead.WindowTitle,
		Category:          lead.Category,
		Subcategory:       lead.Subcategory,
		DurationSeconds:   duration,
		ForegroundSeconds: ratio * duration,
		IsFocusSession: lead.Category == activity.PrimaryWork &&
			duration >= w.opts.Focus.MinDuration.Seconds() &&
			ratio >= w.opts.Focus.MinForegroundRatio,
		ProductivityScore: lead.Score * ratio,
	}

	if err := w.db.InsertSession(sess); err != nil {
		w.logger.Error("failed to save session", slog.Any("error", err))
	} else {
		w.logger.Info(
			"session committed",
			slog.String("app", sess.DisplayName),
			slog.String("category", string(sess.Category)),
			slog.Float64("foreground_seconds", sess.ForegroundSeconds),
			slog.Float64("score", sess.ProductivityScore),
		)
	}

	w.runSessionCmd()

	return sess
}

// groupStats tracks one group's sample count and its first observation,
// which supplies the window title and score for the committed session.
type groupStats struct {
	first activity.Sample
	count int
}
