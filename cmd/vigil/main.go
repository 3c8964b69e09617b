package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/vigil"
	"github.com/ayoisaiah/vigil/internal/config"
)

func run(args []string) error {
	config.InitializePaths()

	return vigil.GetApp().Run(args)
}

func main() {
	if err := run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
