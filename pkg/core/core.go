// Package core orchestrates the review flow: loading decks, picking
// the due cards for a session, applying the scheduler on each rating,
// and writing back only the decks whose cards actually changed.
package core

import (
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mnemo/internal/logger"
	"mnemo/pkg/deck"
	"mnemo/pkg/history"
	"mnemo/pkg/session"
	"mnemo/pkg/srs"
	"mnemo/pkg/stats"
)

var (
	ErrNoDecksLoaded = errors.New("no decks loaded")
	ErrNoSession     = errors.New("no active review session")
)

// DeckInfo describes one discovered deck.
type DeckInfo struct {
	Name  string
	Path  string
	Total int
	Due   int
}

type Core interface {
	ListDecks() ([]DeckInfo, error)
	LoadDecks(names []string) (int, error)
	StartSession() (due int, err error)
	CurrentCard() (*deck.Card, bool)
	Remaining() int
	Rate(q srs.Rating) error
	AddCard(front, back string) error
	Stats(forecastDays int) (*stats.Summary, error)
	SaveDirty() error
	Close() error
}

type CoreImpl struct {
	decksDir string
	hist     *history.Store

	clock func() srs.Date
	rng   *rand.Rand

	cards     []*deck.Card
	loaded    []string        // deck paths in load order
	dirty     map[string]bool // deck path -> needs rewrite
	sess      *session.Session
	sessionID string
}

// New creates a Core over the given decks directory and history store.
// hist may be nil, in which case reviews are not logged.
func New(decksDir string, hist *history.Store) *CoreImpl {
	return &CoreImpl{
		decksDir: decksDir,
		hist:     hist,
		clock:    srs.Today,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		dirty:    make(map[string]bool),
	}
}

// ListDecks discovers the deck files and their due counts.
func (c *CoreImpl) ListDecks() ([]DeckInfo, error) {
	paths, err := deck.Discover(c.decksDir)
	if err != nil {
		return nil, err
	}
	today := c.clock()
	infos := make([]DeckInfo, 0, len(paths))
	for _, path := range paths {
		cards, err := deck.Load(path)
		if err != nil {
			return nil, errors.Wrapf(err, "list deck %q", deck.Name(path))
		}
		infos = append(infos, DeckInfo{
			Name:  deck.Name(path),
			Path:  path,
			Total: len(cards),
			Due:   len(session.Due(cards, today)),
		})
	}
	return infos, nil
}

// LoadDecks loads the named decks (all decks when names is empty) into
// the working set, saving any dirty state from the previous set first.
// It returns the number of cards loaded.
func (c *CoreImpl) LoadDecks(names []string) (int, error) {
	if err := c.SaveDirty(); err != nil {
		return 0, errors.Wrap(err, "save previous decks")
	}

	paths, err := deck.Discover(c.decksDir)
	if err != nil {
		return 0, err
	}
	if len(names) > 0 {
		byName := make(map[string]string, len(paths))
		for _, p := range paths {
			byName[deck.Name(p)] = p
		}
		selected := make([]string, 0, len(names))
		for _, name := range names {
			p, ok := byName[name]
			if !ok {
				return 0, errors.Errorf("no such deck %q", name)
			}
			selected = append(selected, p)
		}
		paths = selected
	}

	var cards []*deck.Card
	for _, path := range paths {
		loaded, err := deck.Load(path)
		if err != nil {
			return 0, err
		}
		if len(loaded) == 0 {
			logger.Infof("deck %s is empty", deck.Name(path))
		}
		cards = append(cards, loaded...)
	}

	c.cards = cards
	c.loaded = paths
	c.sess = nil
	c.sessionID = ""
	return len(cards), nil
}

// StartSession builds a shuffled session over the currently due cards
// and mints a session id for the history log. Returns the due count.
func (c *CoreImpl) StartSession() (int, error) {
	if len(c.loaded) == 0 {
		return 0, ErrNoDecksLoaded
	}
	c.sess = session.New(c.cards, c.clock(), c.rng)
	c.sessionID = uuid.NewString()
	logger.Infof("session %s: %d of %d cards due", c.sessionID, c.sess.Total(), len(c.cards))
	return c.sess.Total(), nil
}

// CurrentCard returns the card under review.
func (c *CoreImpl) CurrentCard() (*deck.Card, bool) {
	if c.sess == nil {
		return nil, false
	}
	return c.sess.Current()
}

// Remaining returns how many cards are left in the session, zero when
// no session is active.
func (c *CoreImpl) Remaining() int {
	if c.sess == nil {
		return 0
	}
	return c.sess.Remaining()
}

// Rate applies the rating to the current card. An invalid rating
// changes nothing and returns ErrInvalidRating: the review is not
// recorded. A valid rating runs the scheduler; the card is persisted
// (and its counters bumped) only when the computed interval or due
// date differs from the stored values. Again re-queues the card within
// the session, the other ratings advance past it.
func (c *CoreImpl) Rate(q srs.Rating) error {
	if c.sess == nil {
		return ErrNoSession
	}
	card, ok := c.sess.Current()
	if !ok {
		return errors.Wrap(ErrNoSession, "session complete")
	}

	today := c.clock()
	out, ok := srs.Schedule(card.IntervalDays, q, today)
	if !ok {
		return errors.Wrapf(srs.ErrInvalidRating, "%d", int(q))
	}
	out.IntervalDays = deck.RoundInterval(out.IntervalDays)

	prev := srs.Outcome{IntervalDays: card.IntervalDays}
	if card.Due != nil {
		prev.Due = *card.Due
	}

	if !out.Equal(prev) {
		intervalBefore := card.IntervalDays
		card.IntervalDays = out.IntervalDays
		due := out.Due
		card.Due = &due
		card.EaseFactor = deck.RoundEase(srs.NextEase(card.EaseFactor, q))
		card.Reviews++
		if q == srs.Again {
			card.Lapses++
		}
		c.dirty[card.Source] = true
		logger.Debugf("card %s: %v, interval %.2f -> %.2f, due %s",
			card.Key()[:8], q, intervalBefore, card.IntervalDays, out.Due)
	}

	if c.hist != nil {
		err := c.hist.Record(history.Entry{
			CardKey:        card.Key(),
			Deck:           deck.Name(card.Source),
			Rating:         q,
			IntervalBefore: prev.IntervalDays,
			IntervalAfter:  out.IntervalDays,
			Due:            out.Due,
			SessionID:      c.sessionID,
			ReviewedAt:     time.Now(),
		})
		if err != nil {
			// The review itself succeeded; a history write failure must
			// not lose the scheduling update.
			logger.Errorf("record review: %v", err)
		}
	}

	if q == srs.Again {
		c.sess.Requeue()
	} else {
		c.sess.Advance()
	}
	return nil
}

// AddCard appends a new card to the first loaded deck and persists it
// immediately.
func (c *CoreImpl) AddCard(front, back string) error {
	if len(c.loaded) == 0 {
		return ErrNoDecksLoaded
	}
	if front == "" || back == "" {
		return errors.New("card front and back must not be empty")
	}
	target := c.loaded[0]
	if len(c.loaded) > 1 {
		logger.Infof("multiple decks loaded, adding card to %s", deck.Name(target))
	}

	card := deck.NewCard(front, back)
	card.Source = target
	c.cards = append(c.cards, card)
	c.dirty[target] = true
	return errors.Wrapf(c.saveDeck(target), "add card to %q", deck.Name(target))
}

// Stats aggregates statistics over the loaded cards.
func (c *CoreImpl) Stats(forecastDays int) (*stats.Summary, error) {
	if len(c.loaded) == 0 {
		return nil, ErrNoDecksLoaded
	}
	return stats.Compute(c.cards, c.clock(), forecastDays), nil
}

// SaveDirty rewrites every deck file that has modified cards, clearing
// its dirty mark on success. Each file is written once, with all of
// its cards, not only the changed ones.
func (c *CoreImpl) SaveDirty() error {
	for path, dirty := range c.dirty {
		if !dirty {
			continue
		}
		if err := c.saveDeck(path); err != nil {
			return err
		}
	}
	return nil
}

func (c *CoreImpl) saveDeck(path string) error {
	var cards []*deck.Card
	for _, card := range c.cards {
		if card.Source == path {
			cards = append(cards, card)
		}
	}
	if err := deck.Save(path, cards); err != nil {
		return errors.Wrapf(err, "save deck %q", filepath.Base(path))
	}
	delete(c.dirty, path)
	logger.Infof("saved %d cards to %s", len(cards), deck.Name(path))
	return nil
}

// Close flushes dirty decks and releases the history store.
func (c *CoreImpl) Close() error {
	err := c.SaveDirty()
	if c.hist != nil {
		c.hist.Close()
	}
	return err
}
