// Package app implements the actions behind each vigil command.
package app

import (
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/vigil/internal/config"
	"github.com/ayoisaiah/vigil/internal/lookup"
	"github.com/ayoisaiah/vigil/report"
	"github.com/ayoisaiah/vigil/store"
	"github.com/ayoisaiah/vigil/watcher"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// reportHelper prepares the report package from command-line arguments.
func reportHelper(ctx *cli.Context) (store.DB, *config.FilterConfig, error) {
	filterCfg := config.Filter(ctx)

	dbClient, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, nil, err
	}

	report.Init(dbClient, &report.Config{
		StartTime: filterCfg.StartTime,
		EndTime:   filterCfg.EndTime,
		Stdout:    os.Stdout,
	})

	return dbClient, filterCfg, nil
}

// WatchAction handles the default command which starts the activity
// watcher and blocks until it is shut down.
func WatchAction(ctx *cli.Context) error {
	cfg, err := config.New(config.WithViperConfig(config.ConfigFilePath()))
	if err != nil {
		return err
	}

	if ctx.Bool("verbose") {
		slog.Debug("configuration loaded", slog.String("dump", spew.Sdump(cfg)))
	}

	dbClient, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer dbClient.Close()

	w := watcher.New(dbClient, cfg, lookup.New(), slog.Default())

	registerSignals(w)

	pterm.Info.Printfln(
		"vigil is watching (sampling every %s, committing every %s)",
		cfg.Monitor.SampleInterval,
		cfg.Monitor.FlushInterval,
	)

	w.Run()

	return nil
}

// ListAction handles the list command and prints a table of the sessions
// committed within a time period.
func ListAction(ctx *cli.Context) error {
	dbClient, filterCfg, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer dbClient.Close()

	if ctx.Bool("json") {
		sessions, err := dbClient.Sessions(
			filterCfg.StartTime,
			filterCfg.EndTime,
		)
		if err != nil {
			return err
		}

		b, err := json.Marshal(sessions)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return report.List()
}

// IdleAction handles the idle command and prints a table of the idle
// periods recorded within a time period.
func IdleAction(ctx *cli.Context) error {
	dbClient, filterCfg, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer dbClient.Close()

	if ctx.Bool("json") {
		periods, err := dbClient.IdlePeriods(
			filterCfg.StartTime,
			filterCfg.EndTime,
		)
		if err != nil {
			return err
		}

		b, err := json.Marshal(periods)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return report.Idle()
}

// StatsAction computes the aggregate statistics for the specified time
// period.
func StatsAction(ctx *cli.Context) error {
	dbClient, _, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer dbClient.Close()

	return report.Show()
}

// EditConfigAction handles the edit-config command which opens the vigil
// config file in the user's default text editor.
func EditConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	if _, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
	); err != nil {
		return err
	}

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
