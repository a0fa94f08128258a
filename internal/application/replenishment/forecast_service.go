package replenishment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/partner"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AlertNotifier delivers replenishment alerts to the outside world (ops
// channel, dashboard feed). Best effort: the alert row is the durable
// record; a failed publish is logged, never propagated.
type AlertNotifier interface {
	PublishAlert(ctx context.Context, alert *replenishment.ReplenishmentAlert) error
}

// ForecastService runs the demand estimation and reorder computation for
// the catalog. One run per product per day: reruns are skipped, not
// duplicated.
type ForecastService struct {
	stockRepo    inventory.ProductStockRepository
	supplierRepo partner.SupplierRepository
	forecastRepo replenishment.ForecastRepository
	alertRepo    replenishment.AlertRepository
	accuracyRepo replenishment.AccuracyRepository
	estimator    replenishment.DemandEstimator
	history      replenishment.SalesHistory
	policy       replenishment.Policy
	windowDays   int
	notifier     AlertNotifier
	logger       *zap.Logger
}

// DefaultWindowDays is the demand lookback window when none is configured
const DefaultWindowDays = 90

// NewForecastService creates a ForecastService
func NewForecastService(
	stockRepo inventory.ProductStockRepository,
	supplierRepo partner.SupplierRepository,
	forecastRepo replenishment.ForecastRepository,
	alertRepo replenishment.AlertRepository,
	accuracyRepo replenishment.AccuracyRepository,
	estimator replenishment.DemandEstimator,
	history replenishment.SalesHistory,
	policy replenishment.Policy,
	windowDays int,
	logger *zap.Logger,
) *ForecastService {
	if windowDays < 1 {
		windowDays = DefaultWindowDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastService{
		stockRepo:    stockRepo,
		supplierRepo: supplierRepo,
		forecastRepo: forecastRepo,
		alertRepo:    alertRepo,
		accuracyRepo: accuracyRepo,
		estimator:    estimator,
		history:      history,
		policy:       policy,
		windowDays:   windowDays,
		logger:       logger,
	}
}

// SetAlertNotifier sets the alert notification sink
func (s *ForecastService) SetAlertNotifier(notifier AlertNotifier) {
	s.notifier = notifier
}

// RunAll executes the forecast pipeline over every active product. A
// failure on one product never aborts the run: the product is logged,
// counted and the loop moves on.
func (s *ForecastService) RunAll(ctx context.Context, asOf time.Time) (*RunSummary, error) {
	products, err := s.stockRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{RunDate: asOf.Truncate(24 * time.Hour)}
	for i := range products {
		stock := &products[i]
		result, err := s.RunForProduct(ctx, stock.ProductCode, asOf)
		if err != nil {
			summary.Failed++
			s.logger.Error("forecast run failed for product",
				zap.String("product_code", stock.ProductCode), zap.Error(err))
			continue
		}
		if result == nil {
			summary.Skipped++
			continue
		}
		summary.Processed++
		if result.Alerted {
			summary.Alerts++
		}
	}

	s.logger.Info("replenishment run finished",
		zap.Time("run_date", summary.RunDate),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("alerts", summary.Alerts))

	return summary, nil
}

// ProductRunResult is one product's outcome within a run
type ProductRunResult struct {
	Forecast ForecastResponse
	Alerted  bool
}

// RunForProduct executes the pipeline for a single product: estimate demand,
// compute the reorder plan, persist the forecast, refresh the product's
// stored figures and raise an alert when the position demands one. Returns
// (nil, nil) when the product already has a forecast for the date.
func (s *ForecastService) RunForProduct(ctx context.Context, productCode string, asOf time.Time) (*ProductRunResult, error) {
	forecastDate := asOf.Truncate(24 * time.Hour)

	exists, err := s.forecastRepo.ExistsForDate(ctx, productCode, forecastDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	stock, err := s.stockRepo.FindByProductCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	if !stock.Active {
		return nil, shared.NewDomainError("PRODUCT_DISCONTINUED",
			fmt.Sprintf("Product %s is discontinued and not forecast", productCode))
	}

	supplier, err := s.supplierRepo.FindByID(ctx, stock.SupplierID)
	if err != nil {
		return nil, err
	}
	leadTimeDays := stock.EffectiveLeadTimeDays(supplier.LeadTimeDays)

	stats, err := s.estimator.Estimate(ctx, productCode, asOf, s.windowDays)
	if err != nil {
		return nil, err
	}

	plan, err := s.policy.Compute(stats, leadTimeDays, stock.OnHand)
	if err != nil {
		return nil, err
	}

	churnRisk, err := s.churnRisk(ctx, productCode, asOf)
	if err != nil {
		return nil, err
	}

	forecast, err := replenishment.NewInventoryForecast(productCode, forecastDate, stats, leadTimeDays, plan, stock.OnHand, churnRisk)
	if err != nil {
		return nil, err
	}
	s.applyAccuracyCalibration(ctx, forecast)

	if err := s.forecastRepo.Save(ctx, forecast); err != nil {
		return nil, err
	}

	if err := stock.UpdateReplenishmentFigures(plan.ReorderPoint, plan.SuggestedQty); err != nil {
		return nil, err
	}
	if err := s.stockRepo.SaveWithLock(ctx, stock); err != nil {
		return nil, err
	}

	alerted, err := s.raiseAlertIfNeeded(ctx, stock, forecast, leadTimeDays)
	if err != nil {
		return nil, err
	}

	return &ProductRunResult{Forecast: ToForecastResponse(forecast), Alerted: alerted}, nil
}

// Simulate computes reorder figures for hypothetical inputs. Pure: nothing
// is read from or written to the product records.
func (s *ForecastService) Simulate(req SimulateRequest) (*SimulateResponse, error) {
	policy := s.policy
	if req.ServiceLevel != 0 {
		policy.ServiceLevel = req.ServiceLevel
	}

	stats := replenishment.DemandStats{
		DailyMean:   req.DailyMeanDemand,
		DailyStdDev: req.DailyStdDev,
	}
	plan, err := policy.Compute(stats, req.LeadTimeDays, req.OnHand)
	if err != nil {
		return nil, err
	}

	resp := &SimulateResponse{
		ServiceLevel: policy.ServiceLevel,
		ReorderPoint: plan.ReorderPoint,
		SafetyStock:  plan.SafetyStock,
		SuggestedQty: plan.SuggestedQty,
	}
	if cover := replenishment.DaysOfCover(req.OnHand, req.DailyMeanDemand); !math.IsInf(cover, 1) {
		resp.DaysOfCover = &cover
	}
	return resp, nil
}

// GetForecast returns the stored forecast for a product and date
func (s *ForecastService) GetForecast(ctx context.Context, productCode string, date time.Time) (*ForecastResponse, error) {
	forecast, err := s.forecastRepo.FindByProductAndDate(ctx, productCode, date.Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	response := ToForecastResponse(forecast)
	return &response, nil
}

// ListAlerts returns the alerts raised for a forecast date
func (s *ForecastService) ListAlerts(ctx context.Context, date time.Time) ([]AlertResponse, error) {
	alerts, err := s.alertRepo.FindByDate(ctx, date.Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}

// churnRisk fetches the window once more to compare recent demand against
// the earlier half
func (s *ForecastService) churnRisk(ctx context.Context, productCode string, asOf time.Time) (float64, error) {
	from := asOf.AddDate(0, 0, -(s.windowDays - 1))
	sales, err := s.history.GetDailySales(ctx, productCode, from, asOf)
	if err != nil {
		return 0, err
	}
	return replenishment.ComputeChurnRisk(sales, asOf, s.windowDays), nil
}

// applyAccuracyCalibration steps the forecast's confidence down when the
// product's recent forecasts have been badly off
func (s *ForecastService) applyAccuracyCalibration(ctx context.Context, forecast *replenishment.InventoryForecast) {
	accuracy, err := s.accuracyRepo.FindLatestByProduct(ctx, forecast.ProductCode)
	if err != nil {
		if !shared.IsDomainError(err, "NOT_FOUND") {
			s.logger.Warn("accuracy lookup failed",
				zap.String("product_code", forecast.ProductCode), zap.Error(err))
		}
		return
	}
	if accuracy.ShouldDowngradeConfidence() {
		forecast.Confidence = forecast.Confidence.Downgrade()
	}
}

// raiseAlertIfNeeded classifies the stock position and, at most once per
// product per day, persists and publishes an alert
func (s *ForecastService) raiseAlertIfNeeded(ctx context.Context, stock *inventory.ProductStock, forecast *replenishment.InventoryForecast, leadTimeDays int) (bool, error) {
	cover := replenishment.DaysOfCover(stock.OnHand, forecast.DailyMeanDemand)
	urgency, needed := replenishment.ClassifyUrgency(stock.OnHand, forecast.ReorderPoint, cover, leadTimeDays)
	if !needed {
		return false, nil
	}

	exists, err := s.alertRepo.ExistsForDate(ctx, stock.ProductCode, forecast.ForecastDate)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	alert, err := replenishment.NewReplenishmentAlert(stock.ProductCode, forecast.ForecastDate,
		urgency, stock.OnHand, forecast.ReorderPoint, forecast.SuggestedQty)
	if err != nil {
		return false, err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return false, err
	}

	if s.notifier != nil {
		if err := s.notifier.PublishAlert(ctx, alert); err != nil {
			s.logger.Warn("alert publish failed",
				zap.String("product_code", alert.ProductCode), zap.Error(err))
		}
	}
	return true, nil
}
