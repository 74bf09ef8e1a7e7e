package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"mnemo/internal/config"
	"mnemo/internal/logger"
	"mnemo/pkg/core"
	"mnemo/pkg/history"
	"mnemo/pkg/server"
)

var serveCommand = cli.Command{
	Name:   "serve",
	Usage:  "start the review UI on localhost",
	Flags:  serveFlags,
	Action: runServe,
}

// effectiveConfig merges the environment config with flag overrides.
func effectiveConfig() *config.Config {
	cfg := config.Load()
	if decksDir != "" {
		cfg.DecksDir = decksDir
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if historyDB != "" {
		cfg.HistoryDB = historyDB
	}
	if forecastDays > 0 {
		cfg.ForecastDays = forecastDays
	}
	return cfg
}

func runServe(ctx *cli.Context) error {
	cfg := effectiveConfig()

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}

	c := core.New(cfg.DecksDir, hist)
	srv, err := server.New(c, cfg.ForecastDays)
	if err != nil {
		c.Close()
		return err
	}

	// Flush dirty decks when the process is interrupted.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down, saving decks")
		if err := c.Close(); err != nil {
			logger.Errorf("save on shutdown: %v", err)
		}
		logger.Sync()
		os.Exit(0)
	}()

	logger.Infof("review UI listening on http://%s (decks: %s)", cfg.Listen, cfg.DecksDir)
	return http.ListenAndServe(cfg.Listen, srv.Router())
}
