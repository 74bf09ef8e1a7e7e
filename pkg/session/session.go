// Package session selects and orders the cards for one review session:
// the due subset of a deck, shuffled uniformly, with lapsed cards
// re-queued near the end of the queue.
package session

import (
	"math/rand"

	"mnemo/pkg/deck"
	"mnemo/pkg/srs"
)

// Due filters cards to those due on the given date: due date unset or
// not after today. Input order is preserved.
func Due(cards []*deck.Card, today srs.Date) []*deck.Card {
	var due []*deck.Card
	for _, c := range cards {
		if c.DueOn(today) {
			due = append(due, c)
		}
	}
	return due
}

// Session is the owned queue of one review pass. It is built once from
// a deck snapshot and mutated only through Advance and Requeue; there
// is no priority ordering between overdue and newly-due cards.
type Session struct {
	queue []*deck.Card
	pos   int
}

// New builds a session over the cards due today, shuffled with rng.
// A nil rng leaves the order unshuffled (tests rely on this).
func New(cards []*deck.Card, today srs.Date, rng *rand.Rand) *Session {
	queue := Due(cards, today)
	if rng != nil {
		rng.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	return &Session{queue: queue}
}

// Current returns the card under review, or ok=false when the session
// is complete.
func (s *Session) Current() (*deck.Card, bool) {
	if s.pos < 0 || s.pos >= len(s.queue) {
		return nil, false
	}
	return s.queue[s.pos], true
}

// Advance moves past the current card.
func (s *Session) Advance() {
	if s.pos < len(s.queue) {
		s.pos++
	}
}

// Requeue moves the current card near the end of the queue so a lapsed
// card comes around again within the same session. The position does
// not advance; the next card shifts into the current slot.
func (s *Session) Requeue() {
	if s.pos < 0 || s.pos >= len(s.queue) {
		return
	}
	card := s.queue[s.pos]
	s.queue = append(s.queue[:s.pos], s.queue[s.pos+1:]...)

	offset := len(s.queue) / 4
	if offset > 2 {
		offset = 2
	}
	insert := len(s.queue) - offset
	if insert < 0 {
		insert = 0
	}
	s.queue = append(s.queue, nil)
	copy(s.queue[insert+1:], s.queue[insert:])
	s.queue[insert] = card
}

// Remaining returns the number of cards not yet completed, including
// the current one.
func (s *Session) Remaining() int {
	if s.pos >= len(s.queue) {
		return 0
	}
	return len(s.queue) - s.pos
}

// Total returns the session's queue length.
func (s *Session) Total() int {
	return len(s.queue)
}

// Done reports whether every card has been completed.
func (s *Session) Done() bool {
	return s.pos >= len(s.queue)
}
