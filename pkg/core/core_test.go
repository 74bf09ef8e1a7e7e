package core

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"mnemo/pkg/history"
	"mnemo/pkg/srs"
)

var today = srs.Date{Year: 2024, Month: 1, Day: 1}

// newTestCore builds a Core over a temp decks dir with a fixed clock
// and a deterministic shuffle.
func newTestCore(t *testing.T, decks map[string]string) *CoreImpl {
	t.Helper()
	dir := t.TempDir()
	for name, content := range decks {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write deck: %v", err)
		}
	}
	hist, err := history.Open(filepath.Join(t.TempDir(), "test.history"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	c := New(dir, hist)
	c.clock = func() srs.Date { return today }
	c.rng = rand.New(rand.NewSource(1))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const header = "front,back,next_review_date,interval_days,ease_factor,lapses,reviews\n"

func startSession(t *testing.T, c *CoreImpl, names ...string) {
	t.Helper()
	if _, err := c.LoadDecks(names); err != nil {
		t.Fatalf("LoadDecks: %v", err)
	}
	if _, err := c.StartSession(); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
}

func TestListDecks(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"spanish.csv": header + "Q1,A1,,\nQ2,A2,2099-01-01,100\n",
		"math.csv":    header + "Q3,A3,2023-12-01,5\n",
	})
	infos, err := c.ListDecks()
	if err != nil {
		t.Fatalf("ListDecks: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d decks", len(infos))
	}
	// Sorted by name.
	if infos[0].Name != "math" || infos[1].Name != "spanish" {
		t.Errorf("deck order: %v, %v", infos[0].Name, infos[1].Name)
	}
	if infos[0].Total != 1 || infos[0].Due != 1 {
		t.Errorf("math counts = %d/%d", infos[0].Total, infos[0].Due)
	}
	if infos[1].Total != 2 || infos[1].Due != 1 {
		t.Errorf("spanish counts = %d/%d", infos[1].Total, infos[1].Due)
	}
}

func TestLoadDecksByName(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"a.csv": header + "Q1,A1,,\n",
		"b.csv": header + "Q2,A2,,\nQ3,A3,,\n",
	})
	n, err := c.LoadDecks([]string{"b"})
	if err != nil {
		t.Fatalf("LoadDecks: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d cards, want 2", n)
	}
	if _, err := c.LoadDecks([]string{"nosuch"}); err == nil {
		t.Error("LoadDecks accepted an unknown deck name")
	}
}

func TestRateGoodPersistsCard(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,2023-12-20,10,2.5,0,3\n",
	})
	startSession(t, c)

	card, ok := c.CurrentCard()
	if !ok {
		t.Fatal("no current card")
	}
	if err := c.Rate(srs.Good); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	if card.IntervalDays != 25.0 {
		t.Errorf("interval = %v, want 25", card.IntervalDays)
	}
	want := today.AddDays(25)
	if card.Due == nil || *card.Due != want {
		t.Errorf("due = %v, want %v", card.Due, want)
	}
	if card.Reviews != 4 || card.Lapses != 0 {
		t.Errorf("counters = %d/%d", card.Reviews, card.Lapses)
	}

	if err := c.SaveDirty(); err != nil {
		t.Fatalf("SaveDirty: %v", err)
	}
	raw, _ := os.ReadFile(card.Source)
	if !strings.Contains(string(raw), "2024-01-26") {
		t.Errorf("due date not persisted:\n%s", raw)
	}
}

func TestRateAgainLapsesAndRequeues(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,2023-12-20,10,2.5,1,3\nQ2,A2,,\nQ3,A3,,\n",
	})
	startSession(t, c)

	first, _ := c.CurrentCard()
	before := c.Remaining()
	if err := c.Rate(srs.Again); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	if first.IntervalDays != 1.0 {
		t.Errorf("lapsed interval = %v", first.IntervalDays)
	}
	if first.Lapses != 2 {
		t.Errorf("lapses = %d, want 2", first.Lapses)
	}
	// The card stays in the session queue.
	if c.Remaining() != before {
		t.Errorf("Remaining = %d, want %d", c.Remaining(), before)
	}
	cur, _ := c.CurrentCard()
	if cur == first {
		t.Error("lapsed card still current")
	}
}

func TestRateInvalidRatingIsNoOp(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,2023-12-20,10,2.5,0,3\n",
	})
	startSession(t, c)

	card, _ := c.CurrentCard()
	err := c.Rate(srs.Rating(9))
	if !errors.Is(err, srs.ErrInvalidRating) {
		t.Fatalf("Rate error = %v, want ErrInvalidRating", err)
	}
	if card.IntervalDays != 10 || card.Reviews != 3 {
		t.Errorf("card mutated by invalid rating: %+v", card)
	}
	if cur, _ := c.CurrentCard(); cur != card {
		t.Error("session advanced on invalid rating")
	}
	if len(c.dirty) != 0 {
		t.Error("deck marked dirty by invalid rating")
	}

	hist, err2 := c.hist.ByDeck("d")
	if err2 != nil {
		t.Fatalf("ByDeck: %v", err2)
	}
	if len(hist) != 0 {
		t.Error("invalid rating recorded in history")
	}
}

func TestRateNoChangeSuppressesWrite(t *testing.T) {
	// A second Again on the same card within one session reproduces
	// the stored (interval, due) exactly, so the write is suppressed.
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,2023-12-20,10,2.5,0,3\nQ2,A2,,\nQ3,A3,,\nQ4,A4,,\n",
	})
	startSession(t, c)

	// walkToQ1 rates everything before Q1 as Good until Q1 is current.
	walkToQ1 := func() {
		t.Helper()
		for {
			cur, ok := c.CurrentCard()
			if !ok {
				t.Fatal("Q1 dropped from session")
			}
			if cur.Front == "Q1" {
				return
			}
			if err := c.Rate(srs.Good); err != nil {
				t.Fatalf("Rate: %v", err)
			}
		}
	}

	walkToQ1()
	if err := c.Rate(srs.Again); err != nil { // lapse: interval -> 1, due -> tomorrow
		t.Fatalf("Rate: %v", err)
	}
	walkToQ1()
	if err := c.SaveDirty(); err != nil {
		t.Fatalf("SaveDirty: %v", err)
	}

	var q1 *srs.Outcome
	for _, card := range c.cards {
		if card.Front == "Q1" {
			q1 = &srs.Outcome{IntervalDays: card.IntervalDays, Due: *card.Due}
			if card.Reviews != 4 || card.Lapses != 1 {
				t.Fatalf("counters after first Again = %d/%d", card.Reviews, card.Lapses)
			}
		}
	}
	if q1 == nil {
		t.Fatal("Q1 not found")
	}

	if err := c.Rate(srs.Again); err != nil { // same outcome: suppressed
		t.Fatalf("Rate: %v", err)
	}
	for _, card := range c.cards {
		if card.Front != "Q1" {
			continue
		}
		if card.Reviews != 4 || card.Lapses != 1 {
			t.Errorf("no-change review bumped counters: %d/%d", card.Reviews, card.Lapses)
		}
		if card.IntervalDays != q1.IntervalDays || *card.Due != q1.Due {
			t.Errorf("no-change review altered state: %v/%v", card.IntervalDays, card.Due)
		}
		if c.dirty[card.Source] {
			t.Error("no-change review marked the deck dirty")
		}
	}
}

func TestRateRecordsHistory(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"spanish.csv": header + "Q1,A1,2023-12-20,10,2.5,0,3\n",
	})
	startSession(t, c)
	card, _ := c.CurrentCard()
	if err := c.Rate(srs.Hard); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	entries, err := c.hist.ByDeck("spanish")
	if err != nil {
		t.Fatalf("ByDeck: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries", len(entries))
	}
	e := entries[0]
	if e.CardKey != card.Key() || e.Rating != srs.Hard {
		t.Errorf("entry = %+v", e)
	}
	if e.IntervalBefore != 10 || e.IntervalAfter != 12 {
		t.Errorf("intervals = %v -> %v", e.IntervalBefore, e.IntervalAfter)
	}
	if e.SessionID == "" {
		t.Error("entry has no session id")
	}
}

func TestRateWithoutSession(t *testing.T) {
	c := newTestCore(t, map[string]string{"d.csv": header + "Q,A,,\n"})
	if err := c.Rate(srs.Good); !errors.Is(err, ErrNoSession) {
		t.Errorf("Rate error = %v, want ErrNoSession", err)
	}
}

func TestSessionRunsToCompletion(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,,\nQ2,A2,,\nQ3,A3,,\n",
	})
	startSession(t, c)

	for i := 0; i < 3; i++ {
		if _, ok := c.CurrentCard(); !ok {
			t.Fatalf("session ended after %d cards", i)
		}
		if err := c.Rate(srs.Good); err != nil {
			t.Fatalf("Rate: %v", err)
		}
	}
	if _, ok := c.CurrentCard(); ok {
		t.Error("session not complete after all cards")
	}
	if err := c.Rate(srs.Good); !errors.Is(err, ErrNoSession) {
		t.Errorf("Rate after completion = %v, want ErrNoSession", err)
	}
}

func TestAddCard(t *testing.T) {
	c := newTestCore(t, map[string]string{"d.csv": header + "Q1,A1,,\n"})
	if _, err := c.LoadDecks(nil); err != nil {
		t.Fatalf("LoadDecks: %v", err)
	}
	if err := c.AddCard("Q2", "A2"); err != nil {
		t.Fatalf("AddCard: %v", err)
	}

	// Persisted immediately: a fresh load sees it.
	n, err := c.LoadDecks(nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if n != 2 {
		t.Errorf("deck has %d cards after add, want 2", n)
	}

	if err := c.AddCard("", "back"); err == nil {
		t.Error("AddCard accepted an empty front")
	}
}

func TestAddCardWithoutDecks(t *testing.T) {
	c := newTestCore(t, map[string]string{"d.csv": header + "Q,A,,\n"})
	if err := c.AddCard("f", "b"); !errors.Is(err, ErrNoDecksLoaded) {
		t.Errorf("AddCard error = %v, want ErrNoDecksLoaded", err)
	}
}

func TestStats(t *testing.T) {
	c := newTestCore(t, map[string]string{
		"d.csv": header + "Q1,A1,,\nQ2,A2,2024-01-01,30,2.5,0,5\n",
	})
	if _, err := c.LoadDecks(nil); err != nil {
		t.Fatalf("LoadDecks: %v", err)
	}
	s, err := c.Stats(7)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalCards != 2 || s.NewCards != 1 || s.DueToday != 2 {
		t.Errorf("stats = %+v", s)
	}
}
