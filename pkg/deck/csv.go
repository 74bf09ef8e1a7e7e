// Package deck reads and writes CSV-file-backed flashcard decks. A
// deck is one CSV file with a header; four columns are required
// (front, back, next_review_date, interval_days), the scheduling
// bookkeeping columns are optional, and any further columns are
// carried through a load/save cycle unchanged.
package deck

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"mnemo/internal/logger"
	"mnemo/pkg/srs"
)

// Required and optional deck columns.
const (
	colFront    = "front"
	colBack     = "back"
	colDue      = "next_review_date"
	colInterval = "interval_days"
	colEase     = "ease_factor"
	colLapses   = "lapses"
	colReviews  = "reviews"
)

var (
	coreColumns = []string{colFront, colBack, colDue, colInterval}
	srsColumns  = []string{colEase, colLapses, colReviews}
)

// Name returns the deck name for a deck file path: the base name
// without its extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RoundInterval rounds an interval to the precision stored on disk.
func RoundInterval(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundEase rounds an ease factor to the precision stored on disk.
func RoundEase(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Load reads all cards from the deck file at path. Malformed rows are
// tolerated: rows with a missing front or back are skipped with a
// warning, an unparseable due date leaves the card due now, and bad
// numeric fields fall back to defaults. A missing required column is
// an error.
func Load(path string) ([]*Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open deck %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.Errorf("deck %q is empty or has no header", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %q", path)
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF") // BOM from spreadsheet exports

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	var missing []string
	for _, col := range coreColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("deck %q is missing required columns: %s",
			path, strings.Join(missing, ", "))
	}

	known := make(map[string]bool, len(coreColumns)+len(srsColumns))
	for _, col := range append(append([]string{}, coreColumns...), srsColumns...) {
		known[col] = true
	}

	var cards []*Card
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Errorf("deck %s row %d: %v, skipping", Name(path), line, err)
			continue
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		front, back := get(colFront), get(colBack)
		if front == "" || back == "" {
			logger.Debugf("deck %s row %d: missing front or back, skipping", Name(path), line)
			continue
		}

		card := &Card{
			Front:  front,
			Back:   back,
			Source: path,
			Row:    line,
		}

		if dueStr := get(colDue); dueStr != "" {
			due, err := srs.ParseDate(dueStr)
			if err != nil {
				// Invalid date: treat the card as due now.
				logger.Debugf("deck %s row %d: bad date %q, treating as due", Name(path), line, dueStr)
			} else {
				card.Due = &due
			}
		}

		if card.Due != nil {
			interval, err := strconv.ParseFloat(get(colInterval), 64)
			if err != nil {
				interval = srs.InitialIntervalDays
			}
			card.IntervalDays = RoundInterval(math.Max(srs.MinimumIntervalDays, interval))
		}

		card.EaseFactor = RoundEase(parseFloatDefault(get(colEase), srs.DefaultEaseFactor))
		if card.EaseFactor < srs.MinimumEaseFactor {
			card.EaseFactor = srs.MinimumEaseFactor
		}
		card.Lapses = parseIntDefault(get(colLapses), 0)
		card.Reviews = parseIntDefault(get(colReviews), 0)

		for col, i := range index {
			if known[col] || i >= len(row) {
				continue
			}
			if card.Extra == nil {
				card.Extra = make(map[string]string)
			}
			card.Extra[col] = row[i]
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// Save rewrites the deck file at path with the given cards. When the
// file already exists and its header carries the required columns,
// the existing column order is preserved and newly appearing columns
// are appended; otherwise a default header is written.
func Save(path string, cards []*Card) error {
	fieldnames := saveFieldnames(path, cards)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create deck %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fieldnames); err != nil {
		return errors.Wrapf(err, "write header of %q", path)
	}
	for _, card := range cards {
		row := make([]string, len(fieldnames))
		for i, col := range fieldnames {
			row[i] = fieldValue(card, col)
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write card %q to %q", card.Front, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush deck %q", path)
	}
	return nil
}

// Append adds a new card with empty scheduling state to the deck file.
func Append(path, front, back string) error {
	cards, err := Load(path)
	if err != nil {
		return err
	}
	cards = append(cards, NewCard(front, back))
	return Save(path, cards)
}

// Discover lists the deck files (*.csv) in dir, sorted by name. A
// missing directory is created and seeded with a small starter deck.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := writeStarterDeck(dir); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errors.Wrapf(err, "stat decks dir %q", dir)
	case !info.IsDir():
		return nil, errors.Errorf("decks path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read decks dir %q", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func writeStarterDeck(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create decks dir %q", dir)
	}
	path := filepath.Join(dir, "example_deck.csv")
	cards := []*Card{
		NewCard("What does *spaced repetition* mean?",
			"Reviewing material at increasing intervals, just before you would forget it."),
		NewCard("Which rating resets a card's interval?",
			"**Again** - the card lapses back to a one day interval."),
	}
	logger.Infof("created decks directory %s with starter deck", dir)
	return Save(path, cards)
}

func saveFieldnames(path string, cards []*Card) []string {
	base := append(append([]string{}, coreColumns...), srsColumns...)
	inBase := make(map[string]bool, len(base))
	for _, col := range base {
		inBase[col] = true
	}

	extraSet := make(map[string]bool)
	for _, card := range cards {
		for col := range card.Extra {
			if !inBase[col] {
				extraSet[col] = true
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for col := range extraSet {
		extras = append(extras, col)
	}
	sort.Strings(extras)
	inferred := append(base, extras...)

	existing, err := readHeader(path)
	if err != nil || existing == nil {
		return inferred
	}
	for _, col := range coreColumns {
		if !contains(existing, col) {
			// Header is unusable without the core columns.
			return inferred
		}
	}
	final := append([]string{}, existing...)
	for _, col := range inferred {
		if !contains(final, col) {
			final = append(final, col)
		}
	}
	return final
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

func fieldValue(card *Card, col string) string {
	switch col {
	case colFront:
		return card.Front
	case colBack:
		return card.Back
	case colDue:
		if card.Due == nil {
			return ""
		}
		return card.Due.String()
	case colInterval:
		return strconv.FormatFloat(RoundInterval(card.IntervalDays), 'f', -1, 64)
	case colEase:
		return strconv.FormatFloat(RoundEase(card.EaseFactor), 'f', -1, 64)
	case colLapses:
		return strconv.Itoa(card.Lapses)
	case colReviews:
		return strconv.Itoa(card.Reviews)
	default:
		return card.Extra[col]
	}
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	// Tolerate floats coming from spreadsheets, e.g. "3.0".
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(v)
}

func contains(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}
