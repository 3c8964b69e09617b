// Package report renders persisted activity records for the console.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/internal/timeutil"
	"github.com/ayoisaiah/vigil/internal/ui"
	"github.com/ayoisaiah/vigil/store"
)

var (
	opts *Config
	db   store.DB
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
	noIdleMsg     = "No idle periods found for the specified time range"

	topAppsLimit = 5
)

// Config controls the reporting window and where output is written.
type Config struct {
	StartTime time.Time
	EndTime   time.Time
	Stdout    io.Writer
}

// Init sets the data source and configuration for subsequent reports.
func Init(dbClient store.DB, cfg *Config) {
	db = dbClient
	opts = cfg
}

type summary struct {
	categories map[activity.Category]time.Duration
	apps       map[string]time.Duration
	totalTime  time.Duration
	focusTime  time.Duration
	scoreSum   float64
	sessions   int
	focus      int
}

// computeTotals aggregates the committed sessions for the current
// reporting window. A session's end is derived from its start time plus
// its duration since end_time is always null on committed rows.
func computeTotals(sessions []activity.Session) summary {
	totals := summary{
		categories: make(map[activity.Category]time.Duration),
		apps:       make(map[string]time.Duration),
	}

	for i := range sessions {
		sess := sessions[i]

		duration := time.Duration(sess.DurationSeconds * float64(time.Second))

		totals.totalTime += duration
		totals.categories[sess.Category] += duration
		totals.apps[sess.DisplayName] += duration
		totals.scoreSum += sess.ProductivityScore
		totals.sessions++

		if sess.IsFocusSession {
			totals.focus++
			totals.focusTime += duration
		}
	}

	return totals
}

func formatDuration(d time.Duration) string {
	//nolint:gomnd // limit to first 2 units
	return durafmt.Parse(d).LimitToUnit("hours").LimitFirstN(2).String()
}

// getSummary renders the work session summary for the current window.
func getSummary(totals summary) string {
	header := fmt.Sprintf("%s\n", pterm.Blue("Summary"))

	timeLogged := fmt.Sprintf(
		"Time tracked: %s\n",
		pterm.Green(formatDuration(totals.totalTime)),
	)

	committed := fmt.Sprintln(
		"Sessions committed:",
		pterm.Green(totals.sessions),
	)

	focus := fmt.Sprintf(
		"Focus sessions: %s (%s)\n",
		pterm.Green(totals.focus),
		pterm.Green(formatDuration(totals.focusTime)),
	)

	var avgScore float64
	if totals.sessions > 0 {
		avgScore = totals.scoreSum / float64(totals.sessions)
	}

	score := fmt.Sprintf(
		"Average productivity score: %s\n",
		pterm.Green(fmt.Sprintf("%.1f", avgScore)),
	)

	return header + timeLogged + committed + focus + score
}

// getCategories renders the per-category time breakdown, most time
// first.
func getCategories(categories map[activity.Category]time.Duration) string {
	if len(categories) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", pterm.Blue("Categories")))

	type keyValue struct {
		key   activity.Category
		value time.Duration
	}

	kv := make([]keyValue, 0, len(categories))
	for k, v := range categories {
		kv = append(kv, keyValue{k, v})
	}

	sort.SliceStable(kv, func(i, j int) bool {
		return kv[i].value > kv[j].value
	})

	for _, v := range kv {
		builder.WriteString(fmt.Sprintf(
			"%s: %s\n",
			ui.Category(v.key),
			pterm.Green(formatDuration(v.value)),
		))
	}

	return builder.String()
}

// getTopApps renders the applications with the most tracked time.
func getTopApps(apps map[string]time.Duration) string {
	if len(apps) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", pterm.Blue("Top applications")))

	type keyValue struct {
		key   string
		value time.Duration
	}

	kv := make([]keyValue, 0, len(apps))
	for k, v := range apps {
		kv = append(kv, keyValue{k, v})
	}

	sort.SliceStable(kv, func(i, j int) bool {
		return kv[i].value > kv[j].value
	})

	if len(kv) > topAppsLimit {
		kv = kv[:topAppsLimit]
	}

	for _, v := range kv {
		builder.WriteString(fmt.Sprintf(
			"%s: %s\n",
			v.key,
			pterm.Green(formatDuration(v.value)),
		))
	}

	return builder.String()
}

// getIdle renders the idle time recorded within the current window.
func getIdle(periods []activity.IdlePeriod) string {
	if len(periods) == 0 {
		return ""
	}

	var total time.Duration

	reasons := make(map[activity.IdleReason]time.Duration)

	for i := range periods {
		period := periods[i]

		duration := time.Duration(
			period.DurationSeconds * float64(time.Second),
		)

		total += duration
		reasons[period.Reason] += duration
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", pterm.Blue("Idle time")))
	builder.WriteString(fmt.Sprintf(
		"Total: %s across %d periods\n",
		pterm.Green(formatDuration(total)),
		len(periods),
	))

	for _, reason := range []activity.IdleReason{
		activity.IdleAuto,
		activity.IdleManual,
		activity.IdleShutdown,
	} {
		if d, ok := reasons[reason]; ok {
			builder.WriteString(fmt.Sprintf(
				"%s: %s\n",
				reason,
				pterm.Green(formatDuration(d)),
			))
		}
	}

	return builder.String()
}

// Show displays the aggregate statistics for the set reporting window.
func Show() error {
	sessions, err := db.Sessions(opts.StartTime, opts.EndTime)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	idlePeriods, err := db.IdlePeriods(opts.StartTime, opts.EndTime)
	if err != nil {
		return err
	}

	// for all-time, set the start time to the first committed session
	startTime := opts.StartTime
	if startTime.IsZero() {
		startTime = timeutil.RoundToStart(sessions[0].StartTime)
	}

	reportingStart := startTime.Format("January 02, 2006")
	reportingEnd := opts.EndTime.Format("January 02, 2006")
	timePeriod := "Reporting period: " + reportingStart + " - " + reportingEnd

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln(timePeriod)

	totals := computeTotals(sessions)

	output := fmt.Sprint(
		header,
		getSummary(totals),
		getCategories(totals.categories),
		getTopApps(totals.apps),
		getIdle(idlePeriods),
	)

	fmt.Fprintln(
		opts.Stdout,
		strings.TrimSpace(output),
	)

	return nil
}
