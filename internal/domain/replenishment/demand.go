package replenishment

import (
	"context"
	"math"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// DailySale is one calendar day's sales total for a product
type DailySale struct {
	Date  time.Time
	Units int
}

// SalesHistory is the read-only sales data source the estimator draws from.
// Implemented by the persistence layer over historical order lines.
type SalesHistory interface {
	// GetDailySales returns (date, units sold) pairs for the product over
	// [from, to]. Days without sales are simply absent from the result.
	GetDailySales(ctx context.Context, productCode string, from, to time.Time) ([]DailySale, error)
}

// DemandStats summarizes per-product daily demand over a lookback window
type DemandStats struct {
	DailyMean        float64
	DailyStdDev      float64
	SampleSize       int // window length in days
	DistinctSaleDays int // days with at least one unit sold
}

// HasSparseHistory reports whether the window held too few sale days for a
// meaningful variability estimate. Downstream treats this as LOW confidence
// rather than failing.
func (s DemandStats) HasSparseHistory() bool {
	return s.DistinctSaleDays < 3
}

// minSaleDaysForStdDev is the number of distinct sale days below which the
// standard deviation is reported as zero
const minSaleDaysForStdDev = 3

// ComputeStats derives demand statistics from a day series. Zero-sale days
// count as zero demand, they are not excluded, so the mean reflects true
// calendar-day velocity. The standard deviation uses the population formula:
// the window is the full observed population, not a sample of it.
func ComputeStats(sales []DailySale, windowDays int) (DemandStats, error) {
	if windowDays < 1 {
		return DemandStats{}, shared.NewDomainError("INVALID_WINDOW", "Lookback window must be at least 1 day")
	}

	total := 0
	distinct := 0
	for _, s := range sales {
		if s.Units < 0 {
			return DemandStats{}, shared.NewDomainError("INVALID_INPUT", "Daily sales cannot be negative")
		}
		total += s.Units
		if s.Units > 0 {
			distinct++
		}
	}

	mean := float64(total) / float64(windowDays)

	stats := DemandStats{
		DailyMean:        mean,
		SampleSize:       windowDays,
		DistinctSaleDays: distinct,
	}

	if distinct < minSaleDaysForStdDev {
		return stats, nil
	}

	// Variance over the full calendar-day series: observed days plus the
	// implicit zero days that fill out the window.
	sumSq := 0.0
	for _, s := range sales {
		d := float64(s.Units) - mean
		sumSq += d * d
	}
	zeroDays := windowDays - len(sales)
	if zeroDays > 0 {
		sumSq += float64(zeroDays) * mean * mean
	}
	stats.DailyStdDev = math.Sqrt(sumSq / float64(windowDays))

	return stats, nil
}

// ComputeChurnRisk scores how sharply demand is falling off, 0.0 (steady or
// growing) to 1.0 (demand has vanished). It compares the mean of the most
// recent half of the window against the earlier half.
func ComputeChurnRisk(sales []DailySale, windowEnd time.Time, windowDays int) float64 {
	if windowDays < 2 {
		return 0
	}
	halfDays := windowDays / 2
	splitAt := windowEnd.AddDate(0, 0, -halfDays)

	earlier, recent := 0, 0
	for _, s := range sales {
		if s.Date.After(splitAt) {
			recent += s.Units
		} else {
			earlier += s.Units
		}
	}
	earlierMean := float64(earlier) / float64(windowDays-halfDays)
	recentMean := float64(recent) / float64(halfDays)

	if earlierMean <= 0 {
		return 0
	}
	risk := (earlierMean - recentMean) / earlierMean
	if risk < 0 {
		return 0
	}
	if risk > 1 {
		return 1
	}
	return risk
}

// DemandEstimator derives demand statistics for a product. The mean/std-dev
// window estimator is the normative implementation; fancier forecasting
// models can be plugged in behind the same contract.
type DemandEstimator interface {
	Estimate(ctx context.Context, productCode string, windowEnd time.Time, windowDays int) (DemandStats, error)
}

// WindowEstimator is the default DemandEstimator over a rolling sales window
type WindowEstimator struct {
	history SalesHistory
}

// NewWindowEstimator creates a WindowEstimator reading from the given history
func NewWindowEstimator(history SalesHistory) *WindowEstimator {
	return &WindowEstimator{history: history}
}

// Estimate computes demand statistics over the trailing window ending at
// windowEnd. Pure read: no side effects.
func (e *WindowEstimator) Estimate(ctx context.Context, productCode string, windowEnd time.Time, windowDays int) (DemandStats, error) {
	if windowDays < 1 {
		return DemandStats{}, shared.NewDomainError("INVALID_WINDOW", "Lookback window must be at least 1 day")
	}
	from := windowEnd.AddDate(0, 0, -(windowDays - 1))
	sales, err := e.history.GetDailySales(ctx, productCode, from, windowEnd)
	if err != nil {
		return DemandStats{}, err
	}
	return ComputeStats(sales, windowDays)
}
