package watcher_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/internal/config"
	"github.com/ayoisaiah/vigil/internal/lookup"
	"github.com/ayoisaiah/vigil/watcher"
)

var errWriteFailed = errors.New("write failed")

// memoryDB is an in-memory persistence gateway for tests.
type memoryDB struct {
	mu          sync.Mutex
	sessions    []activity.Session
	idlePeriods []activity.IdlePeriod
	events      []activity.SystemEvent
	failWrites  bool
}

func (d *memoryDB) InsertSession(sess *activity.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrites {
		return errWriteFailed
	}

	d.sessions = append(d.sessions, *sess)

	return nil
}

func (d *memoryDB) InsertIdlePeriod(period *activity.IdlePeriod) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrites {
		return errWriteFailed
	}

	d.idlePeriods = append(d.idlePeriods, *period)

	return nil
}

func (d *memoryDB) InsertEvent(event *activity.SystemEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWrites {
		return errWriteFailed
	}

	d.events = append(d.events, *event)

	return nil
}

func (d *memoryDB) Sessions(_, _ time.Time) ([]activity.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]activity.Session(nil), d.sessions...), nil
}

func (d *memoryDB) IdlePeriods(_, _ time.Time) ([]activity.IdlePeriod, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]activity.IdlePeriod(nil), d.idlePeriods...), nil
}

func (d *memoryDB) Events(_, _ time.Time) ([]activity.SystemEvent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]activity.SystemEvent(nil), d.events...), nil
}

func (d *memoryDB) Close() error { return nil }

func (d *memoryDB) eventTypes() []activity.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()

	types := make([]activity.EventType, 0, len(d.events))
	for _, e := range d.events {
		types = append(types, e.Type)
	}

	return types
}

func testConfig() *config.Config {
	return &config.Config{
		Monitor: config.MonitorConfig{
			SampleInterval: time.Second,
			FlushInterval:  60 * time.Second,
			IdleThreshold:  5 * time.Minute,
		},
		Focus: config.FocusConfig{
			MinDuration:        600 * time.Second,
			MinForegroundRatio: 0.8,
		},
		Apps: config.AppsConfig{
			Primary:   map[string]string{"code.exe": "VSCode"},
			Secondary: map[string]string{"spotify.exe": "Spotify"},
			Browsers:  map[string]string{"firefox.exe": "Firefox"},
		},
		Domains: config.DomainsConfig{
			Work:    []string{"github.com"},
			Leisure: []string{"youtube.com"},
		},
	}
}

func newTestWatcher(
	cfg *config.Config,
	db *memoryDB,
	fn lookup.Func,
) *watcher.Watcher {
	if fn == nil {
		fn = func() (*lookup.Window, error) { return nil, nil }
	}

	return watcher.New(db, cfg, fn, nil)
}

func primarySample(ts time.Time) activity.Sample {
	return activity.Sample{
		Timestamp:   ts,
		ProcessName: "Code.exe",
		ProcessKey:  "code.exe",
		WindowTitle: "main.go - vigil - VSCode",
		Category:    activity.PrimaryWork,
		Subcategory: "VSCode",
		Score:       100,
	}
}

func emptySample(ts time.Time) activity.Sample {
	return activity.Sample{Timestamp: ts, Category: activity.Idle}
}

func TestFlushDominantActivity(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	now := time.Now()

	for i := 0; i < 30; i++ {
		w.Record(primarySample(now))
	}

	for i := 0; i < 10; i++ {
		w.Record(emptySample(now))
	}

	sess := w.Flush(true)
	require.NotNil(t, sess)

	assert.Equal(t, "Code.exe", sess.ProcessName)
	assert.Equal(t, "VSCode", sess.DisplayName)
	assert.Equal(t, activity.PrimaryWork, sess.Category)
	assert.InDelta(t, 60.0, sess.DurationSeconds, 1e-9)
	assert.InDelta(t, 45.0, sess.ForegroundSeconds, 1e-9)
	assert.InDelta(t, 75.0, sess.ProductivityScore, 1e-9)

	// 0.75 foreground ratio is below the 0.8 focus threshold
	assert.False(t, sess.IsFocusSession)

	assert.Nil(t, sess.EndTime)
	assert.LessOrEqual(t, sess.ForegroundSeconds, sess.DurationSeconds)

	stored, err := db.Sessions(time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestFlushEmptyBuffer(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	assert.Nil(t, w.Flush(true))
	assert.Empty(t, db.sessions)
}

func TestFlushRejectedBelowInterval(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	w.Record(primarySample(time.Now()))

	// unforced flushes are rejected before the interval elapses, with
	// the buffer retained
	assert.Nil(t, w.Flush(false))
	assert.Empty(t, db.sessions)

	sess := w.Flush(true)
	require.NotNil(t, sess)
	assert.Equal(t, "Code.exe", sess.ProcessName)
}

func TestFlushDiscardsWindowWithoutProcesses(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	now := time.Now()

	for i := 0; i < 10; i++ {
		w.Record(emptySample(now))
	}

	assert.Nil(t, w.Flush(true))
	assert.Empty(t, db.sessions)

	// the flush clock still advances: a fresh sample is rejected by an
	// unforced flush immediately afterwards
	w.Record(primarySample(now))
	assert.Nil(t, w.Flush(false))
}

func TestFlushTieBreakFirstSeen(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	now := time.Now()

	spotify := activity.Sample{
		Timestamp:   now,
		ProcessName: "Spotify.exe",
		ProcessKey:  "spotify.exe",
		WindowTitle: "Spotify",
		Category:    activity.SecondaryWork,
		Subcategory: "Spotify",
		Score:       60,
	}

	// equal counts: the first group observed must win
	w.Record(spotify)
	w.Record(primarySample(now))
	w.Record(spotify)
	w.Record(primarySample(now))

	sess := w.Flush(true)
	require.NotNil(t, sess)
	assert.Equal(t, "Spotify.exe", sess.ProcessName)
	assert.Equal(t, activity.SecondaryWork, sess.Category)
}

func TestFocusSessionThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.Monitor.FlushInterval = 600 * time.Second

	cases := []struct {
		name  string
		valid int
		empty int
		focus bool
	}{
		{name: "ratio exactly at threshold", valid: 8, empty: 2, focus: true},
		{name: "ratio below threshold", valid: 79, empty: 21, focus: false},
		{name: "full foreground", valid: 10, empty: 0, focus: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := &memoryDB{}
			w := newTestWatcher(cfg, db, nil)

			now := time.Now()

			for i := 0; i < tc.valid; i++ {
				w.Record(primarySample(now))
			}

			for i := 0; i < tc.empty; i++ {
				w.Record(emptySample(now))
			}

			sess := w.Flush(true)
			require.NotNil(t, sess)
			assert.Equal(t, tc.focus, sess.IsFocusSession)
		})
	}
}

func TestFocusRequiresMinimumDuration(t *testing.T) {
	// a 60s window can never qualify against a 600s focus minimum,
	// even at a perfect foreground ratio
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	for i := 0; i < 10; i++ {
		w.Record(primarySample(time.Now()))
	}

	sess := w.Flush(true)
	require.NotNil(t, sess)
	assert.False(t, sess.IsFocusSession)
}

func TestIdleSuppressesRecording(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	w.StartIdle()
	require.True(t, w.Idle())

	w.Record(primarySample(time.Now()))

	w.EndIdle()
	require.False(t, w.Idle())

	// nothing was buffered while idle
	assert.Nil(t, w.Flush(true))
	assert.Empty(t, db.sessions)
}

func TestPauseSuppressesRecording(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	w.TogglePause()
	require.True(t, w.Paused())

	w.Record(primarySample(time.Now()))

	w.TogglePause()
	require.False(t, w.Paused())

	assert.Nil(t, w.Flush(true))

	assert.Equal(
		t,
		[]activity.EventType{activity.EventPaused, activity.EventResumed},
		db.eventTypes(),
	)
}

func TestStartIdleCommitsPendingWork(t *testing.T) {
	cfg := testConfig()
	db := &memoryDB{}
	w := newTestWatcher(cfg, db, nil)

	for i := 0; i < 5; i++ {
		w.Record(primarySample(time.Now()))
	}

	w.StartIdle()
	w.EndIdle()

	require.Len(t, db.sessions, 1)
	require.Len(t, db.idlePeriods, 1)

	sess := db.sessions[0]
	period := db.idlePeriods[0]

	assert.Equal(t, activity.IdleManual, period.Reason)

	// the committed session's window must end before the idle period
	// begins
	sessEnd := sess.StartTime.Add(cfg.Monitor.FlushInterval)
	assert.False(t, period.StartTime.Before(sessEnd))

	assert.False(t, period.EndTime.Before(period.StartTime))
}

func TestStartIdleIsIdempotent(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	w.StartIdle()
	w.StartIdle()

	w.EndIdle()
	w.EndIdle()

	assert.Len(t, db.idlePeriods, 1)
	assert.Equal(
		t,
		[]activity.EventType{
			activity.EventIdleManualStart,
			activity.EventIdleManualEnd,
		},
		db.eventTypes(),
	)
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	db := &memoryDB{failWrites: true}
	w := newTestWatcher(testConfig(), db, nil)

	for i := 0; i < 3; i++ {
		w.Record(primarySample(time.Now()))
	}

	// the session is still emitted and the buffer cleared even though
	// the write failed
	sess := w.Flush(true)
	require.NotNil(t, sess)

	assert.Nil(t, w.Flush(true))
}

func TestAutoIdleAfterInactivity(t *testing.T) {
	cfg := testConfig()
	cfg.Monitor.SampleInterval = time.Millisecond
	cfg.Monitor.IdleThreshold = 20 * time.Millisecond

	db := &memoryDB{}

	// the lookup never finds a process, so the activity timer is never
	// reset and the idle threshold must trip
	w := newTestWatcher(cfg, db, func() (*lookup.Window, error) {
		return nil, nil
	})

	go w.Run()

	assert.Eventually(t, w.Idle, time.Second, 5*time.Millisecond)

	w.Shutdown()

	<-w.Done()

	db.mu.Lock()
	defer db.mu.Unlock()

	require.NotEmpty(t, db.idlePeriods)
	assert.Equal(t, activity.IdleAuto, db.idlePeriods[0].Reason)

	// shutting down while idle closes out the open idle period
	last := db.idlePeriods[len(db.idlePeriods)-1]
	assert.Equal(t, activity.IdleShutdown, last.Reason)
}

func TestLookupFailureTreatedAsIdle(t *testing.T) {
	cfg := testConfig()
	cfg.Monitor.SampleInterval = time.Millisecond

	db := &memoryDB{}

	w := newTestWatcher(cfg, db, func() (*lookup.Window, error) {
		return nil, lookup.ErrUnsupported
	})

	go w.Run()

	// the loop keeps running despite the failing capability
	assert.Eventually(t, func() bool {
		return len(db.eventTypes()) > 0
	}, time.Second, 5*time.Millisecond)

	w.Shutdown()
	<-w.Done()

	assert.False(t, w.Idle())
}

func TestShutdownIsIdempotent(t *testing.T) {
	db := &memoryDB{}
	w := newTestWatcher(testConfig(), db, nil)

	w.Shutdown()
	w.Shutdown()

	types := db.eventTypes()
	require.Len(t, types, 1)
	assert.Equal(t, activity.EventShutdown, types[0])
}
