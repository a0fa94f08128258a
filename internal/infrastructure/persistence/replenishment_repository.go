package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormForecastRepository implements ForecastRepository using GORM
type GormForecastRepository struct {
	db *gorm.DB
}

// NewGormForecastRepository creates a new GormForecastRepository
func NewGormForecastRepository(db *gorm.DB) *GormForecastRepository {
	return &GormForecastRepository{db: db}
}

// Save inserts a forecast row
func (r *GormForecastRepository) Save(ctx context.Context, forecast *replenishment.InventoryForecast) error {
	return r.db.WithContext(ctx).Create(forecast).Error
}

// FindByProductAndDate returns the forecast for a product on a date
func (r *GormForecastRepository) FindByProductAndDate(ctx context.Context, productCode string, date time.Time) (*replenishment.InventoryForecast, error) {
	var forecast replenishment.InventoryForecast
	if err := r.db.WithContext(ctx).
		First(&forecast, "product_code = ? AND forecast_date = ?", productCode, dateOnly(date)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &forecast, nil
}

// FindByProductBetween returns forecasts for a product in [from, to]
func (r *GormForecastRepository) FindByProductBetween(ctx context.Context, productCode string, from, to time.Time) ([]replenishment.InventoryForecast, error) {
	var forecasts []replenishment.InventoryForecast
	if err := r.db.WithContext(ctx).
		Where("product_code = ? AND forecast_date >= ? AND forecast_date <= ?", productCode, dateOnly(from), dateOnly(to)).
		Order("forecast_date ASC").
		Find(&forecasts).Error; err != nil {
		return nil, err
	}
	return forecasts, nil
}

// ExistsForDate reports whether a forecast already exists for the product
// and date
func (r *GormForecastRepository) ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&replenishment.InventoryForecast{}).
		Where("product_code = ? AND forecast_date = ?", productCode, dateOnly(date)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Save inserts an alert row
func (r *GormAlertRepository) Save(ctx context.Context, alert *replenishment.ReplenishmentAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// ExistsForDate reports whether the product was already alerted for the
// forecast date
func (r *GormAlertRepository) ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&replenishment.ReplenishmentAlert{}).
		Where("product_code = ? AND forecast_date = ?", productCode, dateOnly(date)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByDate returns all alerts raised for a forecast date
func (r *GormAlertRepository) FindByDate(ctx context.Context, date time.Time) ([]replenishment.ReplenishmentAlert, error) {
	var alerts []replenishment.ReplenishmentAlert
	if err := r.db.WithContext(ctx).
		Where("forecast_date = ?", dateOnly(date)).
		Order("urgency ASC, product_code ASC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// GormAccuracyRepository implements AccuracyRepository using GORM
type GormAccuracyRepository struct {
	db *gorm.DB
}

// NewGormAccuracyRepository creates a new GormAccuracyRepository
func NewGormAccuracyRepository(db *gorm.DB) *GormAccuracyRepository {
	return &GormAccuracyRepository{db: db}
}

// Save inserts an accuracy row
func (r *GormAccuracyRepository) Save(ctx context.Context, accuracy *replenishment.ForecastAccuracy) error {
	return r.db.WithContext(ctx).Create(accuracy).Error
}

// FindLatestByProduct returns the most recent accuracy record for a product
func (r *GormAccuracyRepository) FindLatestByProduct(ctx context.Context, productCode string) (*replenishment.ForecastAccuracy, error) {
	var accuracy replenishment.ForecastAccuracy
	if err := r.db.WithContext(ctx).
		Where("product_code = ?", productCode).
		Order("month DESC").
		First(&accuracy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &accuracy, nil
}

// dateOnly truncates a timestamp to its UTC calendar date, matching the
// date columns the forecast and alert tables use.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
