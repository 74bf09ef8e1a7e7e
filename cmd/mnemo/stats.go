package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"mnemo/pkg/core"
)

var statsCommand = cli.Command{
	Name:      "stats",
	Usage:     "print deck statistics",
	ArgsUsage: "[deck ...]",
	Flags:     statsFlags,
	Action:    runStats,
}

func runStats(ctx *cli.Context) error {
	cfg := effectiveConfig()

	c := core.New(cfg.DecksDir, nil)
	defer c.Close()

	if _, err := c.LoadDecks(ctx.Args()); err != nil {
		return err
	}
	s, err := c.Stats(cfg.ForecastDays)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total cards\t%d\n", s.TotalCards)
	fmt.Fprintf(w, "new / learning / young / mature\t%d / %d / %d / %d\n",
		s.NewCards, s.LearningCards, s.YoungCards, s.MatureCards)
	fmt.Fprintf(w, "due today\t%d\n", s.DueToday)
	fmt.Fprintf(w, "due tomorrow\t%d\n", s.DueTomorrow)
	fmt.Fprintf(w, "due next 7 days\t%d\n", s.DueNext7Days)
	fmt.Fprintf(w, "average interval\t%.1fd\n", s.AverageIntervalAll)
	fmt.Fprintf(w, "average interval (mature)\t%.1fd\n", s.AverageIntervalMature)
	fmt.Fprintf(w, "longest interval\t%.1fd\n", s.LongestInterval)
	fmt.Fprintf(w, "average ease\t%.2f\n", s.AverageEase)
	fmt.Fprintf(w, "reviews / lapses\t%d / %d\n", s.TotalReviews, s.TotalLapses)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\ndue forecast:")
	for _, day := range s.Forecast {
		if day.Count == 0 {
			continue
		}
		fmt.Printf("  %s  %d\n", day.Date, day.Count)
	}
	return nil
}
