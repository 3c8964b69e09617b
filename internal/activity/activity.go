// Package activity defines the records produced and persisted by the
// watcher.
package activity

import "time"

// Category classifies what a foreground-window sample represents.
// A category is assigned once per sample and never revised after a
// session is committed.
type Category string

const (
	PrimaryWork    Category = "PRIMARY_WORK"
	SecondaryWork  Category = "SECONDARY_WORK"
	BrowserWork    Category = "BROWSER_WORK"
	BrowserNonWork Category = "BROWSER_NONWORK"
	Idle           Category = "IDLE"
)

// Sample is a single observation of the foreground window. Samples live
// only in the watcher's in-memory buffer and are never persisted
// individually.
type Sample struct {
	Timestamp   time.Time
	ProcessName string // empty when no process could be detected
	ProcessKey  string // lowercased process name
	WindowTitle string
	Category    Category
	Subcategory string
	Score       float64
}

// Session summarizes the dominant activity within one flush window. It is
// immutable once written.
//
// EndTime is always null on committed rows: sessions are recorded
// retroactively with StartTime set to the flush time minus the window
// duration, and consumers derive the end from StartTime plus
// DurationSeconds. Downstream readers depend on this convention, so it is
// preserved rather than corrected.
type Session struct {
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	ProcessName       string     `json:"process_name"`
	DisplayName       string     `json:"display_name"`
	WindowTitle       string     `json:"window_title"`
	Category          Category   `json:"category"`
	Subcategory       string     `json:"subcategory,omitempty"`
	DurationSeconds   float64    `json:"duration_seconds"`
	ForegroundSeconds float64    `json:"foreground_seconds"`
	IsFocusSession    bool       `json:"is_focus_session"`
	ProductivityScore float64    `json:"productivity_score"`
}

// IdleReason records how an idle period came about.
type IdleReason string

const (
	IdleManual   IdleReason = "manual"
	IdleAuto     IdleReason = "auto"
	IdleShutdown IdleReason = "shutdown"
)

// IdlePeriod is a span during which monitoring was suspended because the
// user was away. Its end time is never earlier than its start time.
type IdlePeriod struct {
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationSeconds float64    `json:"duration_seconds"`
	Reason          IdleReason `json:"reason"`
}

// EventType tags an entry in the system-event audit log.
type EventType string

const (
	EventStartup         EventType = "watcher_started"
	EventShutdown        EventType = "watcher_shutdown"
	EventIdleManualStart EventType = "idle_manual_start"
	EventIdleManualEnd   EventType = "idle_manual_end"
	EventIdleAutoStart   EventType = "idle_auto_start"
	EventPaused          EventType = "monitoring_paused"
	EventResumed         EventType = "monitoring_resumed"
)

// SystemEvent is an append-only audit entry for a watcher mode
// transition. It is not consulted by any business logic.
type SystemEvent struct {
	Type      EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}
