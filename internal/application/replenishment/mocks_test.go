package replenishment

import (
	"context"
	"time"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/partner"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductStockRepository is a mock implementation of ProductStockRepository
type MockProductStockRepository struct {
	mock.Mock
}

func (m *MockProductStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductStock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindByProductCode(ctx context.Context, productCode string) (*inventory.ProductStock, error) {
	args := m.Called(ctx, productCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindAllActive(ctx context.Context) ([]inventory.ProductStock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockProductStockRepository) SaveWithLock(ctx context.Context, stock *inventory.ProductStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

// MockForecastRepository is a mock implementation of ForecastRepository
type MockForecastRepository struct {
	mock.Mock
}

func (m *MockForecastRepository) Save(ctx context.Context, forecast *replenishment.InventoryForecast) error {
	args := m.Called(ctx, forecast)
	return args.Error(0)
}

func (m *MockForecastRepository) FindByProductAndDate(ctx context.Context, productCode string, date time.Time) (*replenishment.InventoryForecast, error) {
	args := m.Called(ctx, productCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*replenishment.InventoryForecast), args.Error(1)
}

func (m *MockForecastRepository) FindByProductBetween(ctx context.Context, productCode string, from, to time.Time) ([]replenishment.InventoryForecast, error) {
	args := m.Called(ctx, productCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]replenishment.InventoryForecast), args.Error(1)
}

func (m *MockForecastRepository) ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error) {
	args := m.Called(ctx, productCode, date)
	return args.Bool(0), args.Error(1)
}

// MockAlertRepository is a mock implementation of AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *replenishment.ReplenishmentAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) ExistsForDate(ctx context.Context, productCode string, date time.Time) (bool, error) {
	args := m.Called(ctx, productCode, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) FindByDate(ctx context.Context, date time.Time) ([]replenishment.ReplenishmentAlert, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]replenishment.ReplenishmentAlert), args.Error(1)
}

// MockAccuracyRepository is a mock implementation of AccuracyRepository
type MockAccuracyRepository struct {
	mock.Mock
}

func (m *MockAccuracyRepository) Save(ctx context.Context, accuracy *replenishment.ForecastAccuracy) error {
	args := m.Called(ctx, accuracy)
	return args.Error(0)
}

func (m *MockAccuracyRepository) FindLatestByProduct(ctx context.Context, productCode string) (*replenishment.ForecastAccuracy, error) {
	args := m.Called(ctx, productCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*replenishment.ForecastAccuracy), args.Error(1)
}

// MockSalesHistory is a mock implementation of SalesHistory
type MockSalesHistory struct {
	mock.Mock
}

func (m *MockSalesHistory) GetDailySales(ctx context.Context, productCode string, from, to time.Time) ([]replenishment.DailySale, error) {
	args := m.Called(ctx, productCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]replenishment.DailySale), args.Error(1)
}

// MockAlertNotifier is a mock implementation of AlertNotifier
type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) PublishAlert(ctx context.Context, alert *replenishment.ReplenishmentAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}
