package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ProductStockRepository defines the interface for product stock persistence
type ProductStockRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductStock, error)

	// FindByProductCode finds a record by product code
	FindByProductCode(ctx context.Context, productCode string) (*ProductStock, error)

	// FindAllActive returns every active, non-discontinued product record
	FindAllActive(ctx context.Context) ([]ProductStock, error)

	// Save creates or updates a record
	Save(ctx context.Context, stock *ProductStock) error

	// SaveWithLock saves with optimistic locking (version check).
	// Returns shared.ErrConcurrencyConflict when the stored version differs.
	SaveWithLock(ctx context.Context, stock *ProductStock) error
}
