// Package ankiimport pulls notes out of an Anki SQLite collection
// (collection.anki2) and merges them into CSV decks. Only note content
// is imported; Anki's own scheduling state does not map onto ours, so
// imported cards start fresh.
package ankiimport

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"

	"mnemo/internal/logger"
	"mnemo/pkg/deck"
)

// fieldSep separates note fields inside Anki's flds column.
const fieldSep = "\x1f"

// Note is one Anki note with its resolved deck name.
type Note struct {
	DeckID int64  `db:"did"`
	Fields string `db:"flds"`

	Deck  string
	Front string
	Back  string
}

// Collection is a read-only handle on an Anki collection file.
type Collection struct {
	db *sqlx.DB
}

// Open opens the collection at path read-only.
func Open(path string) (*Collection, error) {
	db, err := sqlx.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(err, "open anki collection")
	}
	return &Collection{db}, nil
}

func (c *Collection) Close() {
	c.db.Close()
}

// Notes reads all notes grouped by deck name. Notes whose flds column
// does not split into at least a front and a back are skipped.
func (c *Collection) Notes() (map[string][]Note, error) {
	deckNames, err := c.deckNames()
	if err != nil {
		return nil, err
	}

	var rows []Note
	if err := c.db.Select(&rows, `
SELECT DISTINCT c.did AS did, n.flds AS flds
FROM notes n
	JOIN cards c ON c.nid = n.id`); err != nil {
		return nil, errors.Wrap(err, "select notes from collection")
	}

	grouped := make(map[string][]Note)
	for _, n := range rows {
		parts := strings.SplitN(n.Fields, fieldSep, 3)
		if len(parts) < 2 {
			logger.Debugf("skipping note with %d field(s)", len(parts))
			continue
		}
		n.Front = strings.TrimSpace(parts[0])
		n.Back = strings.TrimSpace(parts[1])
		if n.Front == "" || n.Back == "" {
			continue
		}
		n.Deck = deckNames[n.DeckID]
		if n.Deck == "" {
			n.Deck = "misc"
		}
		grouped[n.Deck] = append(grouped[n.Deck], n)
	}
	return grouped, nil
}

// deckNames maps deck ids to names. Anki's legacy schema keeps the
// deck table as a JSON object in col.decks; newer schemas have a
// decks table. Both are tried.
func (c *Collection) deckNames() (map[int64]string, error) {
	names := make(map[int64]string)

	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := c.db.Select(&rows, `SELECT id, name FROM decks`); err == nil {
		for _, r := range rows {
			names[r.ID] = r.Name
		}
		return names, nil
	}

	var blob string
	if err := c.db.Get(&blob, `SELECT decks FROM col`); err != nil {
		return nil, errors.Wrap(err, "read deck table from collection")
	}
	var decoded map[int64]struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(blob), &decoded); err != nil {
		return nil, errors.Wrap(err, "decode col.decks")
	}
	for id, d := range decoded {
		names[id] = d.Name
	}
	return names, nil
}

// Result summarizes one import run.
type Result struct {
	Decks    int
	Imported int
	Skipped  int // already present (same front/back hash)
}

// Import merges the collection's notes into CSV decks under decksDir,
// one deck file per Anki deck. Cards whose content already exists in
// the target deck are skipped.
func Import(c *Collection, decksDir string) (*Result, error) {
	grouped, err := c.Notes()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for deckName, notes := range grouped {
		path := filepath.Join(decksDir, sanitizeName(deckName)+".csv")

		var cards []*deck.Card
		existing := make(map[string]bool)
		if loaded, err := deck.Load(path); err == nil {
			cards = loaded
			for _, card := range loaded {
				existing[card.Key()] = true
			}
		}

		added := 0
		for _, n := range notes {
			card := deck.NewCard(n.Front, n.Back)
			if existing[card.Key()] {
				res.Skipped++
				continue
			}
			cards = append(cards, card)
			existing[card.Key()] = true
			added++
		}
		if added == 0 && len(cards) == 0 {
			continue
		}
		if err := deck.Save(path, cards); err != nil {
			return nil, errors.Wrapf(err, "write imported deck %q", deckName)
		}
		res.Decks++
		res.Imported += added
		logger.Infof("imported %d cards into %s (%d already present)",
			added, deck.Name(path), res.Skipped)
	}
	return res, nil
}

// sanitizeName turns an Anki deck name (possibly "Parent::Child" with
// path-hostile characters) into a deck file name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "::", "-")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
