package history

import (
	"path/filepath"
	"testing"
	"time"

	"mnemo/pkg/srs"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.history"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func entry(deck, cardKey string, r srs.Rating, at time.Time) Entry {
	return Entry{
		CardKey:        cardKey,
		Deck:           deck,
		Rating:         r,
		IntervalBefore: 1,
		IntervalAfter:  2.5,
		Due:            srs.Date{Year: 2024, Month: 6, Day: 20},
		SessionID:      "s1",
		ReviewedAt:     at,
	}
}

func TestRecordAndByDeck(t *testing.T) {
	s := openStore(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	if err := s.Record(entry("spanish", "aaa", srs.Good, now)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(entry("spanish", "bbb", srs.Again, now.Add(time.Minute))); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(entry("physics", "ccc", srs.Easy, now)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := s.ByDeck("spanish")
	if err != nil {
		t.Fatalf("ByDeck: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	e := entries[0]
	if e.CardKey != "aaa" || e.Rating != srs.Good || e.IntervalAfter != 2.5 {
		t.Errorf("entry = %+v", e)
	}
	if !e.ReviewedAt.Equal(now) {
		t.Errorf("ReviewedAt = %v", e.ReviewedAt)
	}

	if entries, _ := s.ByDeck("nosuchdeck"); len(entries) != 0 {
		t.Errorf("unknown deck returned %d entries", len(entries))
	}
}

func TestByCard(t *testing.T) {
	s := openStore(t)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	ratings := []srs.Rating{srs.Good, srs.Again, srs.Good}
	for i, r := range ratings {
		if err := s.Record(entry("d", "card-x", r, now.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := s.Record(entry("d", "card-y", srs.Easy, now)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := s.ByCard("d", "card-x")
	if err != nil {
		t.Fatalf("ByCard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range ratings {
		if entries[i].Rating != want {
			t.Errorf("entry %d rating = %v, want %v", i, entries[i].Rating, want)
		}
	}
}

func TestDecks(t *testing.T) {
	s := openStore(t)
	now := time.Now()
	_ = s.Record(entry("b-deck", "k", srs.Good, now))
	_ = s.Record(entry("a-deck", "k", srs.Good, now))

	decks, err := s.Decks()
	if err != nil {
		t.Fatalf("Decks: %v", err)
	}
	// bolt iterates buckets in byte order.
	if len(decks) != 2 || decks[0] != "a-deck" || decks[1] != "b-deck" {
		t.Errorf("decks = %v", decks)
	}
}

func TestCountSince(t *testing.T) {
	s := openStore(t)
	base := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.Record(entry("d", "k", srs.Good, base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	n, err := s.CountSince("d", base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if n != 2 {
		t.Errorf("CountSince = %d, want 2", n)
	}
}

func TestRecordRequiresDeck(t *testing.T) {
	s := openStore(t)
	if err := s.Record(Entry{CardKey: "k"}); err == nil {
		t.Error("Record accepted an entry without a deck")
	}
}
