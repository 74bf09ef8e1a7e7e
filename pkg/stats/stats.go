// Package stats aggregates deck-level statistics: maturity buckets,
// due-count forecasts, interval and ease distributions.
package stats

import (
	"mnemo/pkg/deck"
	"mnemo/pkg/srs"
)

// Maturity thresholds in days of interval.
const (
	learningThresholdDays = 21
	matureThresholdDays   = 90
)

// Bucket is one bar of a distribution, in display order.
type Bucket struct {
	Label string
	Count int
}

// ForecastDay is the number of cards becoming due on one future day.
type ForecastDay struct {
	Date  srs.Date
	Count int
}

// Summary holds every computed statistic for a card set.
type Summary struct {
	TotalCards    int
	NewCards      int
	LearningCards int
	YoungCards    int
	MatureCards   int

	DueToday     int
	DueTomorrow  int
	DueNext7Days int
	Forecast     []ForecastDay

	AverageIntervalAll    float64
	AverageIntervalMature float64
	LongestInterval       float64
	IntervalDistribution  []Bucket

	AverageEase      float64
	EaseDistribution []Bucket

	TotalReviews      int
	TotalLapses       int
	AverageReviewsPer float64
	AverageLapsesPer  float64
	LapsedCardCount   int
}

var (
	intervalBins   = []float64{0, 1, 3, 7, 14, 30, 60, 90, 180, 365}
	intervalLabels = []string{
		"New/Learning (0d)", "<=1d", "2-3d", "4-7d", "8-14d",
		"15-30d", "1-2m", "2-3m", "3-6m", "6-12m", ">1y",
	}

	easeBins   = []float64{0, 1.3, 1.5, 1.8, 2.0, 2.2, 2.4, 2.6, 2.8, 3.0}
	easeLabels = []string{
		"<1.3", "1.3-1.5", "1.5-1.8", "1.8-2.0", "2.0-2.2",
		"2.2-2.4", "2.4-2.6", "2.6-2.8", "2.8-3.0", ">3.0",
	}
)

// Compute aggregates statistics over the given cards as of today,
// forecasting due counts forecastDays into the future.
func Compute(cards []*deck.Card, today srs.Date, forecastDays int) *Summary {
	s := &Summary{TotalCards: len(cards)}

	intervalCounts := make([]int, len(intervalLabels))
	easeCounts := make([]int, len(easeLabels))
	forecast := make(map[srs.Date]int, forecastDays+1)

	tomorrow := today.AddDays(1)
	weekEnd := today.AddDays(7)
	forecastEnd := today.AddDays(forecastDays)

	var (
		totalIntervalAll    float64
		totalIntervalMature float64
		totalEase           float64
		seenCount           int
		matureCount         int
	)

	for _, c := range cards {
		isNew := c.Reviews == 0

		s.TotalReviews += c.Reviews
		s.TotalLapses += c.Lapses
		if c.Lapses > 0 {
			s.LapsedCardCount++
		}
		if !isNew {
			totalIntervalAll += c.IntervalDays
			totalEase += c.EaseFactor
			seenCount++
			if c.IntervalDays > s.LongestInterval {
				s.LongestInterval = c.IntervalDays
			}
		}

		switch {
		case isNew:
			s.NewCards++
		case c.IntervalDays < learningThresholdDays:
			s.LearningCards++
		case c.IntervalDays < matureThresholdDays:
			s.YoungCards++
		default:
			s.MatureCards++
			totalIntervalMature += c.IntervalDays
			matureCount++
		}

		intervalCounts[binIndex(intervalBins, c.IntervalDays)]++
		if !isNew {
			easeCounts[easeBinIndex(c.EaseFactor)]++
		}

		if c.Due != nil {
			due := *c.Due
			if !due.Before(today) && !due.After(forecastEnd) {
				forecast[due]++
			}
			if !due.After(today) {
				s.DueToday++
			}
			if due == tomorrow {
				s.DueTomorrow++
			}
			if due.After(today) && !due.After(weekEnd) {
				s.DueNext7Days++
			}
		} else {
			// New cards are due right now.
			s.DueToday++
			forecast[today]++
		}
	}

	if seenCount > 0 {
		s.AverageEase = round2(totalEase / float64(seenCount))
		s.AverageIntervalAll = round1(totalIntervalAll / float64(seenCount))
	}
	if matureCount > 0 {
		s.AverageIntervalMature = round1(totalIntervalMature / float64(matureCount))
	}
	if s.TotalCards > 0 {
		s.AverageReviewsPer = round1(float64(s.TotalReviews) / float64(s.TotalCards))
		s.AverageLapsesPer = round1(float64(s.TotalLapses) / float64(s.TotalCards))
	}

	for i, label := range intervalLabels {
		s.IntervalDistribution = append(s.IntervalDistribution, Bucket{label, intervalCounts[i]})
	}
	for i, label := range easeLabels {
		s.EaseDistribution = append(s.EaseDistribution, Bucket{label, easeCounts[i]})
	}

	for i := 0; i <= forecastDays; i++ {
		d := today.AddDays(i)
		s.Forecast = append(s.Forecast, ForecastDay{Date: d, Count: forecast[d]})
	}

	return s
}

// binIndex maps an interval to its histogram slot: index 0 for zero
// (new/learning), otherwise the slot whose range contains it.
func binIndex(bins []float64, v float64) int {
	if v == 0 {
		return 0
	}
	for i := 1; i < len(bins); i++ {
		if v <= bins[i] {
			return i
		}
	}
	return len(bins) // ">1y"
}

func easeBinIndex(v float64) int {
	for i := 1; i < len(easeBins); i++ {
		if v < easeBins[i] {
			return i - 1
		}
	}
	return len(easeLabels) - 1 // ">3.0"
}

func round1(v float64) float64 { return float64(int(v*10+0.5)) / 10 }

func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }
