// Package watcher samples the foreground window on a fixed cadence,
// classifies each sample, and aggregates samples into committed session
// records with idle and pause handling.
package watcher

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/internal/classify"
	"github.com/ayoisaiah/vigil/internal/config"
	"github.com/ayoisaiah/vigil/internal/lookup"
	"github.com/ayoisaiah/vigil/store"
)

const (
	// suppressedInterval is the longer sleep used while the watcher is
	// idle or paused and no samples are being recorded.
	suppressedInterval = 5 * time.Second

	// errorBackoff is the fixed pause after a failed tick.
	errorBackoff = 5 * time.Second
)

// Watcher owns all monitoring state: the sample buffer, the mode flags,
// and the activity timestamps. Every mutation goes through its guarded
// operations, so external event sources (signals, tray menus, hotkeys)
// may call them concurrently with the sampling loop.
type Watcher struct {
	opts       *config.Config
	db         store.DB
	classifier *classify.Classifier
	lookup     lookup.Func
	logger     *slog.Logger

	mu           sync.Mutex
	buffer       []activity.Sample
	lastFlush    time.Time
	lastActivity time.Time
	idle         bool
	paused       bool
	idleStart    time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. The lookup function is the injected
// foreground-window capability; pass a stub in tests.
func New(
	db store.DB,
	cfg *config.Config,
	lookupFn lookup.Func,
	logger *slog.Logger,
) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	now := time.Now()

	return &Watcher{
		opts: cfg,
		db:   db,
		classifier: classify.New(classify.Tables{
			PrimaryApps:    cfg.Apps.Primary,
			SecondaryApps:  cfg.Apps.Secondary,
			BrowserApps:    cfg.Apps.Browsers,
			WorkDomains:    cfg.Domains.Work,
			LeisureDomains: cfg.Domains.Leisure,
		}),
		lookup:       lookupFn,
		logger:       logger,
		lastFlush:    now,
		lastActivity: now,
		done:         make(chan struct{}),
	}
}

// Idle reports whether the watcher is currently in idle mode.
func (w *Watcher) Idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.idle
}

// Paused reports whether monitoring is currently paused.
func (w *Watcher) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.paused
}

// suppressed reports whether sampling is switched off by either mode.
func (w *Watcher) suppressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.idle || w.paused
}

// Run executes the sampling loop until Shutdown is called. The loop
// itself never terminates on error: a failed tick is logged and retried
// after a fixed backoff.
func (w *Watcher) Run() {
	w.logEvent(activity.EventStartup, "")
	w.logger.Info(
		"watcher started",
		slog.Duration("sample_interval", w.opts.Monitor.SampleInterval),
		slog.Duration("flush_interval", w.opts.Monitor.FlushInterval),
	)

	for {
		select {
		case <-w.done:
			return
		default:
		}

		w.sleep(w.runTick())
	}
}

// runTick executes one tick, converting a panic from an injected
// capability into a logged error and a longer pause.
func (w *Watcher) runTick() (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("sampling tick failed", slog.Any("panic", r))

			next = errorBackoff
		}
	}()

	return w.tick()
}

// tick performs a single scheduling step: auto-idle check, foreground
// sampling, and a flush when the window has elapsed. It returns how long
// the loop should sleep before the next tick.
func (w *Watcher) tick() time.Duration {
	w.checkAutoIdle()

	// no samples are recorded while idle or paused
	if w.suppressed() {
		return suppressedInterval
	}

	now := time.Now()

	win, err := w.lookup()
	if err != nil {
		// a failed lookup is treated like no detectable process
		w.logger.Debug("foreground lookup failed", slog.Any("error", err))

		win = nil
	}

	var processName, processKey, title string

	if win != nil {
		processName = win.ProcessName
		processKey = win.ProcessKey
		title = win.Title
	}

	if processName != "" {
		w.mu.Lock()
		w.lastActivity = now
		w.mu.Unlock()
	}

	category, subcategory, score := w.classifier.Classify(
		processName,
		processKey,
		title,
	)

	w.Record(activity.Sample{
		Timestamp:   now,
		ProcessName: processName,
		ProcessKey:  processKey,
		WindowTitle: title,
		Category:    category,
		Subcategory: subcategory,
		Score:       score,
	})

	w.mu.Lock()
	flushDue := time.Since(w.lastFlush) >= w.opts.Monitor.FlushInterval
	w.mu.Unlock()

	if flushDue {
		w.Flush(false)
	}

	return w.opts.Monitor.SampleInterval
}

// sleep pauses for the given duration but returns early on shutdown.
func (w *Watcher) sleep(d time.Duration) {
	select {
	case <-w.done:
	case <-time.After(d):
	}
}

// Done is closed once Shutdown has completed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
