package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/store"
)

func newTestClient(t *testing.T) *store.Client {
	t.Helper()

	client, err := store.NewClient(filepath.Join(t.TempDir(), "vigil.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func testSession(start time.Time, process string) *activity.Session {
	return &activity.Session{
		StartTime:         start,
		ProcessName:       process,
		DisplayName:       process,
		Category:          activity.PrimaryWork,
		DurationSeconds:   60,
		ForegroundSeconds: 45,
		ProductivityScore: 75,
	}
}

func TestSessionRange(t *testing.T) {
	client := newTestClient(t)

	base := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	starts := []time.Time{
		base,
		base.Add(1 * time.Minute),
		base.Add(2 * time.Minute),
		base.Add(3 * time.Hour),
	}

	// insert out of order to prove reads come back sorted by start time
	for _, i := range []int{2, 0, 3, 1} {
		err := client.InsertSession(testSession(starts[i], "code.exe"))
		require.NoError(t, err)
	}

	got, err := client.Sessions(base, base.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.True(
			t,
			got[i].StartTime.After(got[i-1].StartTime),
			"sessions must be ordered by start time",
		)
	}

	all, err := client.Sessions(base, base.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := client.Sessions(base.Add(-2*time.Hour), base.Add(-1*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionEndTimeStaysNull(t *testing.T) {
	client := newTestClient(t)

	start := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	err := client.InsertSession(testSession(start, "code.exe"))
	require.NoError(t, err)

	got, err := client.Sessions(start, start.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].EndTime)
	assert.True(t, got[0].StartTime.Equal(start))
}

func TestIdlePeriodRoundTrip(t *testing.T) {
	client := newTestClient(t)

	start := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	period := &activity.IdlePeriod{
		StartTime:       start,
		EndTime:         start.Add(8 * time.Minute),
		DurationSeconds: 480,
		Reason:          activity.IdleAuto,
	}

	require.NoError(t, client.InsertIdlePeriod(period))

	got, err := client.IdlePeriods(start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, activity.IdleAuto, got[0].Reason)
	assert.Equal(t, float64(480), got[0].DurationSeconds)
	assert.False(t, got[0].EndTime.Before(got[0].StartTime))
}

func TestEventLog(t *testing.T) {
	client := newTestClient(t)

	base := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)

	events := []activity.EventType{
		activity.EventStartup,
		activity.EventPaused,
		activity.EventResumed,
		activity.EventShutdown,
	}

	for i, typ := range events {
		err := client.InsertEvent(&activity.SystemEvent{
			Type:      typ,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	got, err := client.Events(base, base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, len(events))

	for i, e := range got {
		assert.Equal(t, events[i], e.Type)
	}
}
