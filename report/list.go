package report

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/vigil/internal/activity"
	"github.com/ayoisaiah/vigil/internal/ui"
)

const listTimeFormat = "Jan 02, 2006 03:04:05 PM"

func printSessionsTable(w io.Writer, sessions []activity.Session) {
	data := [][]string{
		{"#", "START", "END", "APPLICATION", "CATEGORY", "DURATION", "FOCUS", "SCORE"},
	}

	for i := range sessions {
		sess := sessions[i]

		duration := time.Duration(sess.DurationSeconds * float64(time.Second))

		// end_time is null on committed rows so the end is derived
		endTime := sess.StartTime.Add(duration)

		focusText := ""
		if sess.IsFocusSession {
			focusText = pterm.Green("yes")
		}

		row := []string{
			fmt.Sprintf("%d", i+1),
			sess.StartTime.Format(listTimeFormat),
			endTime.Format(listTimeFormat),
			sess.DisplayName,
			ui.Category(sess.Category),
			formatDuration(duration),
			focusText,
			fmt.Sprintf("%.1f", sess.ProductivityScore),
		}

		data = append(data, row)
	}

	ui.PrintTable(data, w)
}

func printIdleTable(w io.Writer, periods []activity.IdlePeriod) {
	data := [][]string{
		{"#", "START", "END", "DURATION", "REASON"},
	}

	for i := range periods {
		period := periods[i]

		duration := time.Duration(
			period.DurationSeconds * float64(time.Second),
		)

		row := []string{
			fmt.Sprintf("%d", i+1),
			period.StartTime.Format(listTimeFormat),
			period.EndTime.Format(listTimeFormat),
			formatDuration(duration),
			string(period.Reason),
		}

		data = append(data, row)
	}

	ui.PrintTable(data, w)
}

// List prints a table of the sessions committed within the reporting
// window.
func List() error {
	sessions, err := db.Sessions(opts.StartTime, opts.EndTime)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	printSessionsTable(opts.Stdout, sessions)

	return nil
}

// Idle prints a table of the idle periods recorded within the reporting
// window.
func Idle() error {
	periods, err := db.IdlePeriods(opts.StartTime, opts.EndTime)
	if err != nil {
		return err
	}

	if len(periods) == 0 {
		pterm.Info.Println(noIdleMsg)
		return nil
	}

	printIdleTable(opts.Stdout, periods)

	return nil
}
