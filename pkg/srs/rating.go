package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Rating is the user's self-assessed recall quality for a single review.
type Rating int

const (
	Again Rating = iota + 1 // Failed to recall; the card lapses.
	Hard                    // Recalled with significant difficulty.
	Good                    // Recalled with some effort.
	Easy                    // Recalled effortlessly.
)

var (
	ratingNames  = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}
	ratingByName = map[string]Rating{
		"Again": Again,
		"Hard":  Hard,
		"Good":  Good,
		"Easy":  Easy,
	}
)

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the rating name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, errors.Wrapf(ErrInvalidRating, "%d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the
// rating name ("Good") or its numeric form ("3").
func (r *Rating) UnmarshalText(text []byte) error {
	if v, ok := ratingByName[string(text)]; ok {
		*r = v
		return nil
	}
	if n, err := strconv.Atoi(string(text)); err == nil && Rating(n).IsValid() {
		*r = Rating(n)
		return nil
	}
	return errors.Wrapf(ErrInvalidRating, "%q", text)
}

// MarshalJSON implements json.Marshaler. Ratings serialize as strings.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Accepts a string name or a
// bare number, so both {"rating":"Good"} and {"rating":3} decode.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return r.UnmarshalText([]byte(s))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(ErrInvalidRating, "%s", data)
	}
	if !Rating(n).IsValid() {
		return errors.Wrapf(ErrInvalidRating, "%d", n)
	}
	*r = Rating(n)
	return nil
}
