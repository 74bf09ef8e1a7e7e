package main

import (
	"fmt"

	"github.com/urfave/cli"

	"mnemo/pkg/ankiimport"
)

var importCommand = cli.Command{
	Name:      "import",
	Usage:     "import notes from an Anki collection into CSV decks",
	ArgsUsage: "<collection.anki2>",
	Flags:     []cli.Flag{decksFlag},
	Action:    runImport,
}

func runImport(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("usage: mnemo import <collection.anki2>", 1)
	}
	cfg := effectiveConfig()

	coll, err := ankiimport.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer coll.Close()

	res, err := ankiimport.Import(coll, cfg.DecksDir)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d cards into %d deck(s), %d already present\n",
		res.Imported, res.Decks, res.Skipped)
	return nil
}
