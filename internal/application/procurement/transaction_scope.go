package procurement

import (
	"context"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories a
// receiving operation touches. All repository operations inside Execute are
// part of the same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the purchase order and stock
// repositories within a transaction. A receipt updates both aggregates: the
// order's received counters and the product stock levels must move together
// or not at all.
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() procurement.PurchaseOrderRepository
	// StockRepo returns the product stock repository scoped to the current transaction
	StockRepo() inventory.ProductStockRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	orderRepo procurement.PurchaseOrderRepository
	stockRepo inventory.ProductStockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo procurement.PurchaseOrderRepository,
	stockRepo inventory.ProductStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo: orderRepo,
		stockRepo: stockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() procurement.PurchaseOrderRepository {
	return s.orderRepo
}

// StockRepo returns the product stock repository.
func (s *NoOpTransactionScope) StockRepo() inventory.ProductStockRepository {
	return s.stockRepo
}
