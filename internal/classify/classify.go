// Package classify maps foreground-window observations to productivity
// categories.
package classify

import (
	"strings"

	"github.com/ayoisaiah/vigil/internal/activity"
)

// Base scores per category. The final productivity score of a session is
// the base score of its dominant activity scaled by the foreground ratio.
const (
	ScorePrimaryWork    = 100
	ScoreSecondaryWork  = 60
	ScoreBrowserWork    = 80
	ScoreBrowserUnknown = 70
	ScoreBrowserLeisure = 20
)

// Tables holds the configured application and domain mappings used for
// categorization. Process keys are lowercased executable names mapped to
// display names; domain entries are matched as case-insensitive
// substrings of the window title.
type Tables struct {
	PrimaryApps    map[string]string
	SecondaryApps  map[string]string
	BrowserApps    map[string]string
	WorkDomains    []string
	LeisureDomains []string
}

// Classifier categorizes samples according to its tables. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	tables Tables
}

// New creates a Classifier from the given tables.
func New(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

// Classify returns the category, subcategory, and base score for a
// foreground-window observation.
//
// Browser windows are matched against the work domain list first, then
// the leisure list; unknown sites default to work with a reduced score.
// Unrecognized processes are treated as idle time with the raw process
// name retained as the subcategory.
func (c *Classifier) Classify(
	processName, processKey, windowTitle string,
) (activity.Category, string, float64) {
	if processName == "" || processKey == "" {
		return activity.Idle, "", 0
	}

	if displayName, ok := c.tables.PrimaryApps[processKey]; ok {
		return activity.PrimaryWork, displayName, ScorePrimaryWork
	}

	if displayName, ok := c.tables.SecondaryApps[processKey]; ok {
		return activity.SecondaryWork, displayName, ScoreSecondaryWork
	}

	if displayName, ok := c.tables.BrowserApps[processKey]; ok {
		titleLower := strings.ToLower(windowTitle)

		for _, domain := range c.tables.WorkDomains {
			if strings.Contains(titleLower, strings.ToLower(domain)) {
				return activity.BrowserWork,
					displayName + " (Work)",
					ScoreBrowserWork
			}
		}

		for _, domain := range c.tables.LeisureDomains {
			if strings.Contains(titleLower, strings.ToLower(domain)) {
				return activity.BrowserNonWork,
					displayName + " (Leisure)",
					ScoreBrowserLeisure
			}
		}

		// unknown browser activity defaults to work
		return activity.BrowserWork, displayName, ScoreBrowserUnknown
	}

	return activity.Idle, processName, 0
}
