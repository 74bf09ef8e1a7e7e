// Package history persists review events in a bolt database, one
// bucket per deck. Entries are append-only; nothing in the review
// flow ever rewrites them.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"mnemo/pkg/srs"
)

// Entry records a single review event.
type Entry struct {
	CardKey        string     `json:"card_key"`
	Deck           string     `json:"deck"`
	Rating         srs.Rating `json:"rating"`
	IntervalBefore float64    `json:"interval_before"`
	IntervalAfter  float64    `json:"interval_after"`
	Due            srs.Date   `json:"due"`
	SessionID      string     `json:"session_id"`
	ReviewedAt     time.Time  `json:"reviewed_at"`
}

// Store is the bolt-backed review log.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open history db")
	}
	return &Store{db}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// Record appends one review event. Keys are "<cardKey>/<unix-nanos>" so
// a card's entries are adjacent and chronological under a cursor scan.
func (s *Store) Record(e Entry) error {
	if e.Deck == "" {
		return errors.New("history entry has no deck")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(e.Deck))
		if err != nil {
			return errors.Wrapf(err, "bucket %q", e.Deck)
		}
		key := fmt.Sprintf("%s/%019d", e.CardKey, e.ReviewedAt.UnixNano())
		encoded, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, "encode entry")
		}
		return b.Put([]byte(key), encoded)
	})
}

// ByDeck returns every recorded entry for a deck, oldest first per card.
func (s *Store) ByDeck(deck string) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(deck))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "decode entry %q", k)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

// ByCard returns a card's entries within a deck, oldest first.
func (s *Store) ByCard(deck, cardKey string) ([]Entry, error) {
	prefix := []byte(cardKey + "/")
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(deck))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "decode entry %q", k)
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Decks lists the deck names that have recorded reviews.
func (s *Store) Decks() ([]string, error) {
	var decks []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			decks = append(decks, string(name))
			return nil
		})
	})
	return decks, err
}

// CountSince counts a deck's reviews recorded at or after t.
func (s *Store) CountSince(deck string, t time.Time) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(deck))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "decode entry %q", k)
			}
			if !e.ReviewedAt.Before(t) {
				count++
			}
			return nil
		})
	})
	return count, err
}
