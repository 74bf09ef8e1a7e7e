package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"mnemo/internal/logger"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "mnemo"
	app.Usage = "spaced repetition flashcards over CSV decks"
	app.Version = version
	app.Commands = []cli.Command{
		serveCommand,
		decksCommand,
		statsCommand,
		importCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		if verbose {
			logger.SetDebug()
		}
		return nil
	}
	app.Flags = []cli.Flag{verboseFlag}

	defer logger.Sync()
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("mnemo: %s\n", err.Error())
		os.Exit(1)
	}
}
