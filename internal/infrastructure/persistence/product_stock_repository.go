package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductStockRepository implements ProductStockRepository using GORM
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// FindByID finds a product stock record by its ID
func (r *GormProductStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	if err := r.db.WithContext(ctx).First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProductCode finds a product stock record by product code
func (r *GormProductStockRepository) FindByProductCode(ctx context.Context, productCode string) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	if err := r.db.WithContext(ctx).First(&stock, "product_code = ?", productCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindAllActive returns every active product record
func (r *GormProductStockRepository) FindAllActive(ctx context.Context) ([]inventory.ProductStock, error) {
	var stocks []inventory.ProductStock
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("product_code ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save creates or updates a product stock record
func (r *GormProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// SaveWithLock saves with optimistic locking. The stored version must still
// match the version the aggregate was loaded at; the save itself bumps it.
func (r *GormProductStockRepository) SaveWithLock(ctx context.Context, stock *inventory.ProductStock) error {
	currentVersion := stock.Version
	stock.Version++
	stock.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&inventory.ProductStock{}).
		Where("id = ? AND version = ?", stock.ID, currentVersion).
		Updates(map[string]interface{}{
			"product_name":        stock.ProductName,
			"on_hand":             stock.OnHand,
			"reorder_point":       stock.ReorderPoint,
			"suggested_order_qty": stock.SuggestedOrderQty,
			"unit_cost":           stock.UnitCost,
			"supplier_id":         stock.SupplierID,
			"lead_time_override":  stock.LeadTimeOverride,
			"active":              stock.Active,
			"version":             stock.Version,
			"updated_at":          stock.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		stock.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}
