// Package srs implements the review-scheduling policy: given a card's
// current interval and a recall-quality rating, it computes the next
// interval and next due date. The scheduler is a pure function; reading
// and writing card state is the caller's concern.
package srs

import "math"

// Policy constants. Intervals are measured in days.
const (
	// MinimumIntervalDays floors every computed interval.
	MinimumIntervalDays = 1.0
	// InitialIntervalDays is the interval a card resets to on Again.
	InitialIntervalDays = 1.0

	hardMultiplier = 1.2
	goodMultiplier = 2.5
	easyMultiplier = 4.0
)

// Ease-factor bookkeeping. The ease factor is persisted per card and
// reported in statistics, but the interval formula below deliberately
// does not read it: interval growth uses the fixed multipliers only.
const (
	DefaultEaseFactor = 2.5
	MinimumEaseFactor = 1.3

	easeModifierAgain = -0.20
	easeModifierHard  = -0.15
	easeModifierEasy  = +0.15
)

// Outcome is the result of scheduling one review: the card's next
// interval and the date it becomes due again.
type Outcome struct {
	IntervalDays float64
	Due          Date
}

// Equal reports value equality on both fields. Callers use it to
// suppress persistence when a review leaves the card's stored state
// unchanged.
func (o Outcome) Equal(p Outcome) bool {
	return o.IntervalDays == p.IntervalDays && o.Due == p.Due
}

// Schedule computes the next interval and due date for a card with the
// given current interval, reviewed with quality q on the given date.
//
// The returned bool is false when q is not a defined rating; in that
// case the Outcome is the zero value and the caller must leave the
// card untouched. For valid ratings the function is total: any float
// input, including zero and negatives, produces an interval of at
// least MinimumIntervalDays and a due date of at least today+1.
func Schedule(currentInterval float64, q Rating, today Date) (Outcome, bool) {
	var (
		interval float64
		days     int
	)

	switch q {
	case Again:
		interval = InitialIntervalDays
		days = 1

	case Hard:
		interval = math.Max(MinimumIntervalDays, currentInterval*hardMultiplier)
		days = int(math.Round(interval))

	case Good:
		interval = math.Max(MinimumIntervalDays, currentInterval*goodMultiplier)
		days = int(math.Round(interval))

	case Easy:
		// Easy must land strictly after what Good would have produced
		// on the same starting interval.
		goodDays := int(math.Round(math.Max(MinimumIntervalDays, currentInterval*goodMultiplier)))
		interval = math.Max(MinimumIntervalDays, currentInterval*easyMultiplier)
		days = int(math.Round(interval))
		if goodDays+1 > days {
			days = goodDays + 1
		}

	default:
		return Outcome{}, false
	}

	return Outcome{IntervalDays: interval, Due: today.AddDays(days)}, true
}

// NextEase applies the per-rating ease modifier to the current ease
// factor, flooring at MinimumEaseFactor. Good leaves ease unchanged.
func NextEase(current float64, q Rating) float64 {
	if current < MinimumEaseFactor {
		current = MinimumEaseFactor
	}
	switch q {
	case Again:
		current += easeModifierAgain
	case Hard:
		current += easeModifierHard
	case Easy:
		current += easeModifierEasy
	}
	if current < MinimumEaseFactor {
		current = MinimumEaseFactor
	}
	return current
}
