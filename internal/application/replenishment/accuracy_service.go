package replenishment

import (
	"context"
	"time"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccuracyService compares past forecasts against realized demand and
// writes monthly accuracy records. Append-only: forecast rows are never
// rewritten, calibration only influences future confidence grades.
type AccuracyService struct {
	stockRepo    inventory.ProductStockRepository
	forecastRepo replenishment.ForecastRepository
	accuracyRepo replenishment.AccuracyRepository
	history      replenishment.SalesHistory
	logger       *zap.Logger
}

// NewAccuracyService creates an AccuracyService
func NewAccuracyService(
	stockRepo inventory.ProductStockRepository,
	forecastRepo replenishment.ForecastRepository,
	accuracyRepo replenishment.AccuracyRepository,
	history replenishment.SalesHistory,
	logger *zap.Logger,
) *AccuracyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccuracyService{
		stockRepo:    stockRepo,
		forecastRepo: forecastRepo,
		accuracyRepo: accuracyRepo,
		history:      history,
		logger:       logger,
	}
}

// CalibrateMonth scores one product's forecasts for a calendar month. Each
// forecast's predicted daily rate is compared against the realized daily
// rate over that forecast's lead-time horizon. Months without forecasts
// produce no record.
func (s *AccuracyService) CalibrateMonth(ctx context.Context, productCode string, month time.Time) (*AccuracyResponse, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	forecasts, err := s.forecastRepo.FindByProductBetween(ctx, productCode, first, last)
	if err != nil {
		return nil, err
	}
	if len(forecasts) == 0 {
		return nil, shared.NewDomainError("NO_FORECASTS",
			"No forecasts recorded for the product in that month")
	}

	predicted := make([]float64, 0, len(forecasts))
	realized := make([]float64, 0, len(forecasts))
	for i := range forecasts {
		f := &forecasts[i]
		if f.LeadTimeDays < 1 {
			continue
		}
		horizonEnd := f.ForecastDate.AddDate(0, 0, f.LeadTimeDays-1)
		sales, err := s.history.GetDailySales(ctx, productCode, f.ForecastDate, horizonEnd)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, day := range sales {
			total += day.Units
		}
		predicted = append(predicted, f.DailyMeanDemand)
		realized = append(realized, float64(total)/float64(f.LeadTimeDays))
	}
	if len(predicted) == 0 {
		return nil, shared.NewDomainError("NO_FORECASTS",
			"No scorable forecasts for the product in that month")
	}

	accuracy, err := replenishment.ComputeAccuracy(productCode, first, predicted, realized)
	if err != nil {
		return nil, err
	}
	if err := s.accuracyRepo.Save(ctx, accuracy); err != nil {
		return nil, err
	}

	if accuracy.ShouldDowngradeConfidence() {
		s.logger.Warn("forecast accuracy below threshold, future confidence downgraded",
			zap.String("product_code", productCode),
			zap.Float64("mape", accuracy.MAPE))
	}

	return &AccuracyResponse{
		ProductCode: accuracy.ProductCode,
		Month:       accuracy.Month,
		MAE:         accuracy.MAE,
		MAPE:        accuracy.MAPE,
		SampleCount: accuracy.SampleCount,
		Downgraded:  accuracy.ShouldDowngradeConfidence(),
	}, nil
}

// CalibrateAll scores every active product for a month. Per-product
// failures are logged and skipped, matching the forecast run's isolation.
func (s *AccuracyService) CalibrateAll(ctx context.Context, month time.Time) (int, error) {
	products, err := s.stockRepo.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}
	scored := 0
	for i := range products {
		code := products[i].ProductCode
		if _, err := s.CalibrateMonth(ctx, code, month); err != nil {
			if !shared.IsDomainError(err, "NO_FORECASTS") {
				s.logger.Error("accuracy calibration failed for product",
					zap.String("product_code", code), zap.Error(err))
			}
			continue
		}
		scored++
	}
	return scored, nil
}

// GetLatest returns the most recent accuracy record for a product
func (s *AccuracyService) GetLatest(ctx context.Context, productCode string) (*AccuracyResponse, error) {
	accuracy, err := s.accuracyRepo.FindLatestByProduct(ctx, productCode)
	if err != nil {
		return nil, err
	}
	return &AccuracyResponse{
		ProductCode: accuracy.ProductCode,
		Month:       accuracy.Month,
		MAE:         accuracy.MAE,
		MAPE:        accuracy.MAPE,
		SampleCount: accuracy.SampleCount,
		Downgraded:  accuracy.ShouldDowngradeConfidence(),
	}, nil
}
