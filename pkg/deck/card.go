package deck

import (
	"crypto/md5"
	"encoding/hex"

	"mnemo/pkg/srs"
)

// Card is one flashcard row of a deck file together with its
// scheduling state. Due == nil means the card is new and due
// immediately.
type Card struct {
	Front        string
	Back         string
	IntervalDays float64
	Due          *srs.Date
	EaseFactor   float64
	Lapses       int
	Reviews      int

	// Extra holds columns the store does not interpret. They survive a
	// load/save round trip untouched.
	Extra map[string]string

	// Source is the deck file the card came from; Row its 1-based CSV
	// line. Both are set by the loader and not persisted as columns.
	Source string
	Row    int
}

// NewCard returns a fresh card with empty scheduling state.
func NewCard(front, back string) *Card {
	return &Card{
		Front:      front,
		Back:       back,
		EaseFactor: srs.DefaultEaseFactor,
	}
}

// Key returns a stable identifier for the card's content, an md5 hex
// digest over front and back. Review history entries are keyed by it.
func (c *Card) Key() string {
	h := md5.New()
	h.Write([]byte(c.Front))
	h.Write([]byte{0})
	h.Write([]byte(c.Back))
	return hex.EncodeToString(h.Sum(nil))
}

// IsNew reports whether the card has never completed a review.
func (c *Card) IsNew() bool {
	return c.Due == nil
}

// DueOn reports whether the card is due on the given date: new cards
// are always due, otherwise due iff the stored date is not after today.
func (c *Card) DueOn(today srs.Date) bool {
	return c.Due == nil || !c.Due.After(today)
}
