// Package store connects to the data store and manages the persisted
// session, idle-period, and system-event records.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	idleBucket    = "idle_periods"
	eventBucket   = "events"
)

var errVigilRunning = errors.New(
	"is Vigil already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// InsertSession appends a session row keyed by its start time.
func (c *Client) InsertSession(sess *activity.Session) error {
	key := timeutil.ToKey(sess.StartTime)

	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(key, value)
	})
}

// InsertIdlePeriod appends an idle period row keyed by its start time.
func (c *Client) InsertIdlePeriod(period *activity.IdlePeriod) error {
	key := timeutil.ToKey(period.StartTime)

	value, err := json.Marshal(period)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(idleBucket)).Put(key, value)
	})
}

// InsertEvent appends an audit log entry keyed by its timestamp.
func (c *Client) InsertEvent(event *activity.SystemEvent) error {
	key := timeutil.ToKey(event.Timestamp)

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(eventBucket)).Put(key, value)
	})
}

// rangeScan collects the raw values whose keys fall within the given time
// bounds. Keys are RFC3339Nano timestamps, so a cursor scan returns them
// in chronological order.
func (c *Client) rangeScan(
	bucket string,
	startTime, endTime time.Time,
) ([][]byte, error) {
	var values [][]byte

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(bucket)).Cursor()

		min := timeutil.ToKey(startTime)
		max := timeutil.ToKey(endTime)

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			value := make([]byte, len(v))
			copy(value, v)

			values = append(values, value)
		}

		return nil
	})

	return values, err
}

// Sessions returns the sessions that started within the specified time
// bounds, ordered by start time.
func (c *Client) Sessions(
	startTime, endTime time.Time,
) ([]activity.Session, error) {
	values, err := c.rangeScan(sessionBucket, startTime, endTime)
	if err != nil {
		return nil, err
	}

	sessions := make([]activity.Session, 0, len(values))

	for _, v := range values {
		var sess activity.Session

		err = json.Unmarshal(v, &sess)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, sess)
	}

	return sessions, nil
}

// IdlePeriods returns the idle periods that started within the specified
// time bounds, ordered by start time.
func (c *Client) IdlePeriods(
	startTime, endTime time.Time,
) ([]activity.IdlePeriod, error) {
	values, err := c.rangeScan(idleBucket, startTime, endTime)
	if err != nil {
		return nil, err
	}

	periods := make([]activity.IdlePeriod, 0, len(values))

	for _, v := range values {
		var period activity.IdlePeriod

		err = json.Unmarshal(v, &period)
		if err != nil {
			return nil, err
		}

		periods = append(periods, period)
	}

	return periods, nil
}

// Events returns the audit log entries recorded within the specified
// time bounds, ordered by timestamp.
func (c *Client) Events(
	startTime, endTime time.Time,
) ([]activity.SystemEvent, error) {
	values, err := c.rangeScan(eventBucket, startTime, endTime)
	if err != nil {
		return nil, err
	}

	events := make([]activity.SystemEvent, 0, len(values))

	for _, v := range values {
		var event activity.SystemEvent

		err = json.Unmarshal(v, &event)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errVigilRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range []string{sessionBucket, idleBucket, eventBucket} {
			_, err = tx.CreateBucketIfNotExists([]byte(b))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
