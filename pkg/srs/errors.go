package srs

import "github.com/pkg/errors"

// ErrInvalidRating marks a rating outside Again..Easy. The scheduler
// treats such ratings as a no-op; callers surfacing this error must
// treat the review as not recorded.
var ErrInvalidRating = errors.New("invalid rating")
