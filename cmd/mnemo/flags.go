package main

import "github.com/urfave/cli"

var (
	decksDir     string
	listenAddr   string
	historyDB    string
	forecastDays int
	verbose      bool
)

var verboseFlag = cli.BoolFlag{
	Name:        "verbose, v",
	Usage:       "enable debug logging",
	Destination: &verbose,
}

var decksFlag = cli.StringFlag{
	Name:        "decks-dir, d",
	Usage:       "directory containing the CSV deck files",
	EnvVar:      "MNEMO_DECKS_DIR",
	Destination: &decksDir,
}

var serveFlags = []cli.Flag{
	decksFlag,
	cli.StringFlag{
		Name:        "listen, l",
		Usage:       "address the review UI listens on",
		EnvVar:      "MNEMO_LISTEN",
		Destination: &listenAddr,
	},
	cli.StringFlag{
		Name:        "history-db",
		Usage:       "path of the review history database",
		EnvVar:      "MNEMO_HISTORY_DB",
		Destination: &historyDB,
	},
	cli.IntFlag{
		Name:        "forecast-days",
		Usage:       "days of due forecast shown on the statistics page",
		EnvVar:      "MNEMO_FORECAST_DAYS",
		Destination: &forecastDays,
	},
}

var statsFlags = []cli.Flag{
	decksFlag,
	cli.IntFlag{
		Name:        "forecast-days",
		Usage:       "days of due forecast to print",
		EnvVar:      "MNEMO_FORECAST_DAYS",
		Destination: &forecastDays,
	},
}
