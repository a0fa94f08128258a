package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	procurementapp "github.com/flexiwear/backend/internal/application/procurement"
	"github.com/flexiwear/backend/internal/infrastructure/event"
	"github.com/flexiwear/backend/tests/testutil"
	"go.uber.org/zap"
)

// Thirty days of perfectly flat demand at 10 units/day against a 7 day
// lead time and the default 95% service level gives a reorder point of
// exactly 70 with zero safety stock.
const (
	flatDemandDays  = 30
	flatDemandUnits = 10
)

func TestReplenishmentRun_FlatDemand(t *testing.T) {
	e := newEngine(t, flatDemandDays)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	supplier := e.seedSupplier(t, "ACME", 7, 30)
	e.seedStock(t, supplier, "CG-SLV-M", 20, 8)
	e.seedDailySales(t, "CG-SLV-M", asOf, flatDemandDays, flatDemandUnits)

	summary, err := e.forecasts.RunAll(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Alerts)

	forecast, err := e.forecasts.GetForecast(ctx, "CG-SLV-M", asOf)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, forecast.DailyMeanDemand, 0.001)
	assert.InDelta(t, 0.0, forecast.DailyStdDev, 0.001)
	assert.Equal(t, 70, forecast.ReorderPoint)
	assert.Equal(t, 120, forecast.SuggestedQty)
	assert.Equal(t, 7, forecast.LeadTimeDays)

	// The product record carries the refreshed figures for order drafting
	stock, err := e.stockRepo.FindByProductCode(ctx, "CG-SLV-M")
	require.NoError(t, err)
	require.NotNil(t, stock.ReorderPoint)
	assert.Equal(t, 70, *stock.ReorderPoint)
	assert.Equal(t, 120, stock.SuggestedOrderQty)

	// On hand 20 is below the reorder point, so the run raised an alert
	alerts, err := e.forecasts.ListAlerts(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "URGENT", alerts[0].Urgency)
	assert.Equal(t, 20, alerts[0].OnHand)
	assert.Equal(t, 70, alerts[0].ReorderPoint)

	t.Run("same-day rerun is idempotent", func(t *testing.T) {
		again, err := e.forecasts.RunAll(ctx, asOf)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Processed)
		assert.Equal(t, 1, again.Skipped)
		assert.Equal(t, 0, again.Alerts)

		alerts, err := e.forecasts.ListAlerts(ctx, asOf)
		require.NoError(t, err)
		assert.Len(t, alerts, 1)
	})
}

func TestReplenishmentToReceipt_FullLifecycle(t *testing.T) {
	e := newEngine(t, flatDemandDays)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	handled := testutil.NewEventRecorder()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handled)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	e.orders.SetEventPublisher(bus)

	supplier := e.seedSupplier(t, "ACME", 7, 30)
	e.seedStock(t, supplier, "CG-SLV-M", 20, 8)
	e.seedDailySales(t, "CG-SLV-M", asOf, flatDemandDays, flatDemandUnits)

	_, err := e.forecasts.RunAll(ctx, asOf)
	require.NoError(t, err)

	// Draft straight from the stored recommendation
	order, err := e.orders.CreateFromRecommendation(ctx, procurementapp.CreateFromRecommendationRequest{
		ProductCode: "CG-SLV-M",
	})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", order.Status)
	assert.Equal(t, "STOCK_REPLENISHMENT", order.Type)
	assert.Equal(t, "NORMAL", order.Priority)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 120, order.Items[0].OrderedQty)
	assert.Equal(t, supplier.ID, order.SupplierID)

	// Walk the order through its lifecycle
	order, err = e.orders.Approve(ctx, order.ID, procurementapp.ApprovePurchaseOrderRequest{ApprovedBy: "planner@flexiwear"})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", order.Status)

	order, err = e.orders.Send(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", order.Status)

	order, err = e.orders.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", order.Status)
	require.NotNil(t, order.PaymentDueAt, "credit terms should schedule a payment due date")

	order, err = e.orders.MarkInTransit(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", order.Status)

	// Full receipt books every unit into stock
	result, err := e.orders.Receive(ctx, order.ID, procurementapp.ReceivePurchaseOrderRequest{
		Lines: []procurementapp.ReceiveLineInput{
			{ItemID: order.Items[0].ID, Quantity: 120},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsFullyReceived)
	assert.Equal(t, "RECEIVED", result.Order.Status)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 120, result.Lines[0].AddedToStock)
	assert.Equal(t, 0, result.Lines[0].AllocatedToSales)

	stock, err := e.stockRepo.FindByProductCode(ctx, "CG-SLV-M")
	require.NoError(t, err)
	assert.Equal(t, 140, stock.OnHand)

	// Settle and close
	order, err = e.orders.RecordPayment(ctx, order.ID, procurementapp.RecordPaymentRequest{
		Amount: result.Order.TotalAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", order.PaymentStatus)

	order, err = e.orders.Close(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", order.Status)

	// Lifecycle transitions were published on the bus
	assert.True(t, testutil.WaitForEvents(t, handled, 1, time.Second),
		"expected order lifecycle events on the bus")
}

func TestReceive_OverReceiptRejectsBatch(t *testing.T) {
	e := newEngine(t, flatDemandDays)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	supplier := e.seedSupplier(t, "ACME", 7, 0)
	e.seedStock(t, supplier, "CG-SLV-M", 20, 8)
	e.seedDailySales(t, "CG-SLV-M", asOf, flatDemandDays, flatDemandUnits)

	_, err := e.forecasts.RunAll(ctx, asOf)
	require.NoError(t, err)

	order, err := e.orders.CreateFromRecommendation(ctx, procurementapp.CreateFromRecommendationRequest{ProductCode: "CG-SLV-M"})
	require.NoError(t, err)
	order, err = e.orders.Approve(ctx, order.ID, procurementapp.ApprovePurchaseOrderRequest{ApprovedBy: "planner"})
	require.NoError(t, err)
	order, err = e.orders.Send(ctx, order.ID)
	require.NoError(t, err)
	order, err = e.orders.Confirm(ctx, order.ID)
	require.NoError(t, err)

	_, err = e.orders.Receive(ctx, order.ID, procurementapp.ReceivePurchaseOrderRequest{
		Lines: []procurementapp.ReceiveLineInput{
			{ItemID: order.Items[0].ID, Quantity: 121},
		},
	})
	require.Error(t, err)

	// The rejected batch must leave both the order and the stock untouched
	reloaded, err := e.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", reloaded.Status)
	assert.Equal(t, 0, reloaded.TotalReceivedQty)

	stock, err := e.stockRepo.FindByProductCode(ctx, "CG-SLV-M")
	require.NoError(t, err)
	assert.Equal(t, 20, stock.OnHand)
}

func TestForecastAccuracy_Calibration(t *testing.T) {
	e := newEngine(t, flatDemandDays)
	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	supplier := e.seedSupplier(t, "ACME", 7, 0)
	e.seedStock(t, supplier, "CG-SLV-M", 20, 8)
	// History for the estimate plus the realized demand over the lead horizon
	e.seedDailySales(t, "CG-SLV-M", asOf.AddDate(0, 0, 6), flatDemandDays+6, flatDemandUnits)

	_, err := e.forecasts.RunForProduct(ctx, "CG-SLV-M", asOf)
	require.NoError(t, err)

	report, err := e.accuracy.CalibrateMonth(ctx, "CG-SLV-M", asOf)
	require.NoError(t, err)
	assert.Equal(t, "CG-SLV-M", report.ProductCode)
	assert.Equal(t, 1, report.SampleCount)
	assert.InDelta(t, 0.0, report.MAE, 0.001, "flat demand forecast should be exact")
	assert.InDelta(t, 0.0, report.MAPE, 0.001)
	assert.False(t, report.Downgraded)

	latest, err := e.accuracy.GetLatest(ctx, "CG-SLV-M")
	require.NoError(t, err)
	assert.Equal(t, report.Month, latest.Month)

	t.Run("month without forecasts scores nothing", func(t *testing.T) {
		scored, err := e.accuracy.CalibrateAll(ctx, asOf.AddDate(0, -3, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, scored)
	})
}
