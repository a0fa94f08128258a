package replenishment

import (
	"math"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// ConfidenceLevel grades how much the engine trusts a forecast
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// InventoryForecast is one scheduler run's output for one product. Rows are
// immutable once written: new runs insert new rows, never mutate history,
// preserving the audit trail the accuracy pass depends on.
type InventoryForecast struct {
	shared.BaseAggregateRoot
	ProductCode  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_forecast_product_date,priority:1"`
	ForecastDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_forecast_product_date,priority:2"`

	DailyMeanDemand float64 `gorm:"not null"`
	DailyStdDev     float64 `gorm:"not null"`
	SampleSize      int     `gorm:"not null"`
	LeadTimeDays    int     `gorm:"not null"`

	// PredictedDemand is the expected unit demand over the lead-time horizon
	PredictedDemand   int      `gorm:"not null"`
	DaysUntilStockout *float64 // nil when there is no measurable demand
	ReorderPoint      int      `gorm:"not null"`
	SuggestedQty      int      `gorm:"not null"`

	Confidence ConfidenceLevel `gorm:"type:varchar(10);not null"`
	ChurnRisk  float64         `gorm:"not null;default:0"` // 0.0 .. 1.0
}

// TableName returns the table name for GORM
func (InventoryForecast) TableName() string {
	return "inventory_forecasts"
}

// NewInventoryForecast builds a forecast row for the given product and date
func NewInventoryForecast(productCode string, forecastDate time.Time, stats DemandStats, leadTimeDays int, plan Plan, onHand int, churnRisk float64) (*InventoryForecast, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if churnRisk < 0 || churnRisk > 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Churn risk must be between 0.0 and 1.0")
	}

	f := &InventoryForecast{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       productCode,
		ForecastDate:      forecastDate.Truncate(24 * time.Hour),
		DailyMeanDemand:   stats.DailyMean,
		DailyStdDev:       stats.DailyStdDev,
		SampleSize:        stats.SampleSize,
		LeadTimeDays:      leadTimeDays,
		PredictedDemand:   int(math.Ceil(stats.DailyMean * float64(leadTimeDays))),
		ReorderPoint:      plan.ReorderPoint,
		SuggestedQty:      plan.SuggestedQty,
		Confidence:        DeriveConfidence(stats),
		ChurnRisk:         churnRisk,
	}

	if cover := DaysOfCover(onHand, stats.DailyMean); !math.IsInf(cover, 1) {
		f.DaysUntilStockout = &cover
	}

	return f, nil
}

// Confidence derivation thresholds
const (
	confidenceMinWindowDays = 14
	confidenceHighWindow    = 60
	confidenceHighMaxCV     = 0.5
)

// DeriveConfidence grades a forecast from its input statistics: sparse or
// short histories are LOW, long windows with stable demand are HIGH.
func DeriveConfidence(stats DemandStats) ConfidenceLevel {
	if stats.HasSparseHistory() || stats.SampleSize < confidenceMinWindowDays {
		return ConfidenceLow
	}
	if stats.SampleSize >= confidenceHighWindow && stats.DailyMean > 0 &&
		stats.DailyStdDev/stats.DailyMean < confidenceHighMaxCV {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// Downgrade steps the confidence one level down, used by accuracy
// calibration when realized demand diverged badly from the forecast
func (c ConfidenceLevel) Downgrade() ConfidenceLevel {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ForecastAccuracy is one month's realized-vs-forecast comparison for a
// product. Append-only: the calibration pass never rewrites forecast rows.
type ForecastAccuracy struct {
	shared.BaseAggregateRoot
	ProductCode string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_accuracy_product_month,priority:1"`
	Month       time.Time `gorm:"type:date;not null;uniqueIndex:idx_accuracy_product_month,priority:2"`
	MAE         float64   `gorm:"not null"` // mean absolute error, units/day
	MAPE        float64   `gorm:"not null"` // mean absolute percentage error, 0.0-based ratio
	SampleCount int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ForecastAccuracy) TableName() string {
	return "forecast_accuracies"
}

// ComputeAccuracy compares forecast demand rates against realized ones.
// Pairs where the realized value is zero are excluded from MAPE (division
// by zero) but still count toward MAE.
func ComputeAccuracy(productCode string, month time.Time, forecast, realized []float64) (*ForecastAccuracy, error) {
	if len(forecast) != len(realized) || len(forecast) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Forecast and realized series must be non-empty and equal length")
	}

	absSum := 0.0
	pctSum := 0.0
	pctN := 0
	for i := range forecast {
		diff := math.Abs(forecast[i] - realized[i])
		absSum += diff
		if realized[i] != 0 {
			pctSum += diff / math.Abs(realized[i])
			pctN++
		}
	}

	acc := &ForecastAccuracy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       productCode,
		Month:             time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC),
		MAE:               absSum / float64(len(forecast)),
		SampleCount:       len(forecast),
	}
	if pctN > 0 {
		acc.MAPE = pctSum / float64(pctN)
	}
	return acc, nil
}

// mapeDowngradeThreshold is the MAPE above which a product's confidence is
// stepped down during calibration
const mapeDowngradeThreshold = 0.5

// ShouldDowngradeConfidence reports whether forecasts for this product were
// inaccurate enough to warrant a lower confidence grade
func (a *ForecastAccuracy) ShouldDowngradeConfidence() bool {
	return a.MAPE > mapeDowngradeThreshold
}
