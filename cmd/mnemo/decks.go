package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"mnemo/pkg/core"
)

var decksCommand = cli.Command{
	Name:   "decks",
	Usage:  "list decks with card and due counts",
	Flags:  []cli.Flag{decksFlag},
	Action: runDecks,
}

func runDecks(ctx *cli.Context) error {
	cfg := effectiveConfig()

	c := core.New(cfg.DecksDir, nil)
	defer c.Close()

	infos, err := c.ListDecks()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DECK\tCARDS\tDUE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%d\n", info.Name, info.Total, info.Due)
	}
	return w.Flush()
}
