package persistence

import (
	"context"

	appprocurement "github.com/flexiwear/backend/internal/application/procurement"
	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormTransactionScope runs a unit of work inside one database transaction,
// handing the callback repositories bound to that transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a transaction. Any error rolls everything back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{
			orderRepo: NewGormPurchaseOrderRepository(tx),
			stockRepo: NewGormProductStockRepository(tx),
		})
	})
}

type gormTransactionalRepositories struct {
	orderRepo *GormPurchaseOrderRepository
	stockRepo *GormProductStockRepository
}

func (r *gormTransactionalRepositories) OrderRepo() procurement.PurchaseOrderRepository {
	return r.orderRepo
}

func (r *gormTransactionalRepositories) StockRepo() inventory.ProductStockRepository {
	return r.stockRepo
}
