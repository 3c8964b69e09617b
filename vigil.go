// Package vigil assembles the command-line interface for the activity
// watcher.
package vigil

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/vigil/app"
	"github.com/ayoisaiah/vigil/internal/config"
)

const (
	envNoColor      = "NO_COLOR"
	envVigilNoColor = "VIGIL_NO_COLOR"
)

var (
	endTimeFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "Specify an end date in the following format: YYYY-MM-DD [HH:MM:SS PM] (defaults to the current time)",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Specify a time period. Possible values are: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
	}

	startTimeFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Specify a start date in the following format: YYYY-MM-DD [HH:MM:SS PM]",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Output records in JSON format",
	}

	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"V"},
		Usage:   "Enable debug-level logging",
	}
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// initLogger routes the default slog logger to a size-capped rotating
// log file so long-running watch sessions cannot fill the disk.
func initLogger(verbose bool) {
	var out io.Writer = &lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
		out = io.MultiWriter(out, os.Stderr)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})))
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/vigil/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if VIGIL_NO_COLOR is set
	if _, exists := os.LookupEnv(envVigilNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	initLogger(ctx.Bool("verbose"))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting vigil")

	return nil
}

// GetApp retrieves the vigil app instance.
func GetApp() *cli.App {
	filterFlags := []cli.Flag{
		startTimeFlag,
		endTimeFlag,
		periodFlag,
		noColorFlag,
	}

	vigilApp := &cli.App{
		Name: "vigil",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage:                "Vigil is a cross-platform activity watcher for the command-line. It samples the foreground window every second\n\t\tand aggregates your activity into productivity sessions.",
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: app.EditConfigAction,
			},
			{
				Name:   "idle",
				Usage:  "List the idle periods recorded within the specified time period",
				Action: app.IdleAction,
				Flags:  append(filterFlags, jsonFlag),
			},
			{
				Name:   "list",
				Usage:  "List the sessions committed within the specified time period",
				Action: app.ListAction,
				Flags:  append(filterFlags, jsonFlag),
			},
			{
				Name:   "stats",
				Usage:  "Track your productivity with aggregate statistics. Defaults to a reporting period of 7 days",
				Action: app.StatsAction,
				Flags:  filterFlags,
			},
			{
				Name:   "watch",
				Usage:  "Start the activity watcher in the foreground (same as running vigil with no command)",
				Action: app.WatchAction,
				Flags:  []cli.Flag{verboseFlag},
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
			verboseFlag,
		},
		Action: app.WatchAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return vigilApp
}
