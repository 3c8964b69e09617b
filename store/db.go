package store

import (
	"time"

	"github.com/ayoisaiah/vigil/internal/activity"
)

// DB is the persistence gateway for watcher records. All three record
// types are append-only: rows are never updated or deleted once written.
type DB interface {
	// InsertSession appends a committed session row.
	InsertSession(sess *activity.Session) error
	// InsertIdlePeriod appends an idle period row.
	InsertIdlePeriod(period *activity.IdlePeriod) error
	// InsertEvent appends an entry to the system-event audit log.
	InsertEvent(event *activity.SystemEvent) error
	// Sessions returns the sessions whose start time falls within the
	// given bounds, ordered by start time.
	Sessions(startTime, endTime time.Time) ([]activity.Session, error)
	// IdlePeriods returns the idle periods whose start time falls
	// within the given bounds, ordered by start time.
	IdlePeriods(startTime, endTime time.Time) ([]activity.IdlePeriod, error)
	// Events returns the audit log entries recorded within the given
	// bounds, ordered by timestamp.
	Events(startTime, endTime time.Time) ([]activity.SystemEvent, error)
	// Close ends the database connection.
	Close() error
}
