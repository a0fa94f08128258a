// Package integration exercises the replenishment engine end to end:
// application services wired to real repositories over an in-memory
// database, with only the outer HTTP and Redis edges replaced.
package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	procurementapp "github.com/flexiwear/backend/internal/application/procurement"
	replenishmentapp "github.com/flexiwear/backend/internal/application/replenishment"
	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/partner"
	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/infrastructure/persistence"
	"github.com/flexiwear/backend/tests/testutil"
)

// engine bundles the full service stack over one test database.
type engine struct {
	db *gorm.DB

	stockRepo    *persistence.GormProductStockRepository
	supplierRepo *persistence.GormSupplierRepository
	orderRepo    *persistence.GormPurchaseOrderRepository
	forecastRepo *persistence.GormForecastRepository
	alertRepo    *persistence.GormAlertRepository
	accuracyRepo *persistence.GormAccuracyRepository
	salesHistory *persistence.GormSalesHistory
	gateway      *persistence.GormSalesOrderGateway

	orders    *procurementapp.PurchaseOrderService
	forecasts *replenishmentapp.ForecastService
	accuracy  *replenishmentapp.AccuracyService
}

func newEngineDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t,
		&partner.Supplier{},
		&inventory.ProductStock{},
		&procurement.PurchaseOrder{},
		&procurement.PurchaseOrderItem{},
		&replenishment.InventoryForecast{},
		&replenishment.ReplenishmentAlert{},
		&replenishment.ForecastAccuracy{},
		&persistence.SalesRecord{},
		&persistence.SalesOrderLine{},
	)
}

// newEngine wires services against a fresh database. The lookback window
// is configurable per test so demand fixtures stay small.
func newEngine(t *testing.T, windowDays int) *engine {
	t.Helper()

	db := newEngineDB(t)
	log := zap.NewNop()

	e := &engine{
		db:           db,
		stockRepo:    persistence.NewGormProductStockRepository(db),
		supplierRepo: persistence.NewGormSupplierRepository(db),
		orderRepo:    persistence.NewGormPurchaseOrderRepository(db),
		forecastRepo: persistence.NewGormForecastRepository(db),
		alertRepo:    persistence.NewGormAlertRepository(db),
		accuracyRepo: persistence.NewGormAccuracyRepository(db),
		salesHistory: persistence.NewGormSalesHistory(db),
		gateway:      persistence.NewGormSalesOrderGateway(db),
	}

	txScope := persistence.NewGormTransactionScope(db)
	crossDock := procurementapp.NewCrossDockCoordinator(e.gateway, log)
	e.orders = procurementapp.NewPurchaseOrderService(
		e.orderRepo, e.supplierRepo, e.stockRepo, txScope, crossDock, log)

	e.forecasts = replenishmentapp.NewForecastService(
		e.stockRepo, e.supplierRepo, e.forecastRepo, e.alertRepo, e.accuracyRepo,
		replenishment.NewWindowEstimator(e.salesHistory), e.salesHistory,
		replenishment.DefaultPolicy(), windowDays, log)

	e.accuracy = replenishmentapp.NewAccuracyService(
		e.stockRepo, e.forecastRepo, e.accuracyRepo, e.salesHistory, log)

	return e
}

func (e *engine) seedSupplier(t *testing.T, code string, leadTimeDays, creditDays int) *partner.Supplier {
	t.Helper()

	supplier, err := partner.NewSupplier(code, code+" Textiles Ltd", leadTimeDays)
	require.NoError(t, err)
	supplier.CreditDays = creditDays
	require.NoError(t, e.db.Create(supplier).Error)
	return supplier
}

func (e *engine) seedStock(t *testing.T, supplier *partner.Supplier, productCode string, onHand int, unitCost float64) *inventory.ProductStock {
	t.Helper()

	stock, err := inventory.NewProductStock(productCode, "Compression Garment "+productCode, supplier.ID)
	require.NoError(t, err)
	stock.OnHand = onHand
	stock.UnitCost = decimal.NewFromFloat(unitCost)
	require.NoError(t, e.db.Create(stock).Error)
	return stock
}

// seedDailySales writes one sales record per day, ending on the given day.
func (e *engine) seedDailySales(t *testing.T, productCode string, lastDay time.Time, days, unitsPerDay int) {
	t.Helper()

	for i := 0; i < days; i++ {
		record := persistence.SalesRecord{
			ID:          uuid.New(),
			ProductCode: productCode,
			SoldOn:      lastDay.AddDate(0, 0, -i),
			Units:       unitsPerDay,
			CreatedAt:   time.Now(),
		}
		require.NoError(t, e.db.Create(&record).Error)
	}
}

func (e *engine) seedSalesOrderLine(t *testing.T, salesOrderID uuid.UUID, productCode string, orderedQty int) {
	t.Helper()

	line := persistence.SalesOrderLine{
		ID:           uuid.New(),
		SalesOrderID: salesOrderID,
		ProductCode:  productCode,
		OrderedQty:   orderedQty,
		Status:       "OPEN",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, e.db.Create(&line).Error)
}
