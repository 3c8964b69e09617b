// Package ui provides pterm helpers for console output.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/vigil/internal/activity"
)

// PrintTable renders rows as a boxed table with a header.
func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

// Category returns the category name colored by how productive it is.
func Category(c activity.Category) string {
	switch c {
	case activity.PrimaryWork:
		return pterm.Green(string(c))
	case activity.SecondaryWork, activity.BrowserWork:
		return pterm.Cyan(string(c))
	case activity.BrowserNonWork:
		return pterm.Magenta(string(c))
	default:
		return pterm.Gray(string(c))
	}
}
