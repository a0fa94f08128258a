package replenishment

import (
	"context"
	"time"
)

// ForecastRepository persists scheduler forecast output. Rows are immutable:
// the only writes are inserts.
type ForecastRepository interface {
	// Save inserts a forecast row
	Save(ctx context.Context, forecast *InventoryForecast) error

	// FindByProductAndDate returns the forecast for a product on a date, or
	// shared.ErrNotFound
	FindByProductAndDate(ctx context.Context, productCode string, date time.Time) (*InventoryForecast, error)

	// FindByProductBetween returns forecasts for a product in [from, to]
	FindByProductBetween(ctx context.Context, productCode string, from, to time.Time) ([]InventoryForecast, error)

	// ExistsForDate reports whether a forecast already exists for the
	// product and date, used for same-day idempotence
	ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error)
}

// AlertRepository persists replenishment alerts for deduplication
type AlertRepository interface {
	// Save inserts an alert row
	Save(ctx context.Context, alert *ReplenishmentAlert) error

	// ExistsForDate reports whether the product was already alerted for the
	// forecast date
	ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error)

	// FindByDate returns all alerts raised for a forecast date
	FindByDate(ctx context.Context, date time.Time) ([]ReplenishmentAlert, error)
}

// AccuracyRepository persists monthly forecast accuracy records
type AccuracyRepository interface {
	// Save inserts an accuracy row
	Save(ctx context.Context, accuracy *ForecastAccuracy) error

	// FindLatestByProduct returns the most recent accuracy record for a
	// product, or shared.ErrNotFound
	FindLatestByProduct(ctx context.Context, productCode string) (*ForecastAccuracy, error)
}
