package scheduler

import (
	"context"
	"sync"
	"time"

	appreplenishment "github.com/flexiwear/backend/internal/application/replenishment"
	"go.uber.org/zap"
)

// ForecastRunner runs the daily replenishment pass for the whole catalog
type ForecastRunner interface {
	RunAll(ctx context.Context, asOf time.Time) (*appreplenishment.RunSummary, error)
}

// AccuracyCalibrator recomputes forecast accuracy for a closed month
type AccuracyCalibrator interface {
	CalibrateAll(ctx context.Context, month time.Time) (int, error)
}

// OverdueMarker flags purchase orders whose payment due date has passed
type OverdueMarker interface {
	MarkOverduePayments(ctx context.Context, now time.Time) (int, error)
}

// TriggerConfig holds configuration for the replenishment trigger
type TriggerConfig struct {
	// DailyRunHour and DailyRunMinute set when the daily pass fires (24h clock)
	DailyRunHour   int
	DailyRunMinute int

	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultTriggerConfig returns default trigger configuration
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		DailyRunHour:   2, // 2am, after the nightly sales import settles
		DailyRunMinute: 0,
		CheckInterval:  time.Minute,
	}
}

// ReplenishmentTrigger fires the daily replenishment pass: forecast run,
// overdue payment sweep, and on the first day of each month the accuracy
// calibration for the month just closed.
type ReplenishmentTrigger struct {
	config    TriggerConfig
	forecasts ForecastRunner
	accuracy  AccuracyCalibrator
	overdue   OverdueMarker
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewReplenishmentTrigger creates a new replenishment trigger
func NewReplenishmentTrigger(
	config TriggerConfig,
	forecasts ForecastRunner,
	accuracy AccuracyCalibrator,
	overdue OverdueMarker,
	logger *zap.Logger,
) *ReplenishmentTrigger {
	return &ReplenishmentTrigger{
		config:    config,
		forecasts: forecasts,
		accuracy:  accuracy,
		overdue:   overdue,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *ReplenishmentTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("replenishment trigger started",
		zap.Int("daily_hour", t.config.DailyRunHour),
		zap.Int("daily_minute", t.config.DailyRunMinute),
		zap.Duration("check_interval", t.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger, waiting for an in-flight run to finish
func (t *ReplenishmentTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("replenishment trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *ReplenishmentTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires the daily pass at most once per calendar date
func (t *ReplenishmentTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastRunDate == currentDate
	t.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != t.config.DailyRunHour || now.Minute() != t.config.DailyRunMinute {
		return
	}

	t.mu.Lock()
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.RunNow(ctx, now)
}

// RunNow executes the daily pass immediately, outside the schedule. Used by
// the trigger loop and exposed for manual kicks.
func (t *ReplenishmentTrigger) RunNow(ctx context.Context, now time.Time) {
	summary, err := t.forecasts.RunAll(ctx, now)
	if err != nil {
		t.logger.Error("daily replenishment run failed", zap.Error(err))
	} else {
		t.logger.Info("daily replenishment run finished",
			zap.Int("processed", summary.Processed),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed),
			zap.Int("alerts", summary.Alerts),
		)
	}

	marked, err := t.overdue.MarkOverduePayments(ctx, now)
	if err != nil {
		t.logger.Error("overdue payment sweep failed", zap.Error(err))
	} else if marked > 0 {
		t.logger.Warn("purchase orders marked overdue", zap.Int("count", marked))
	}

	// Close out last month's accuracy on the first of each month
	if now.Day() == 1 {
		previousMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		calibrated, err := t.accuracy.CalibrateAll(ctx, previousMonth)
		if err != nil {
			t.logger.Error("monthly accuracy calibration failed", zap.Error(err))
		} else {
			t.logger.Info("monthly accuracy calibration finished",
				zap.String("month", previousMonth.Format("2006-01")),
				zap.Int("products", calibrated),
			)
		}
	}
}
