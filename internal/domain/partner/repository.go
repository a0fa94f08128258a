package partner

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier lookups.
// The engine treats suppliers as read-only; writes happen in the admin CRUD.
type SupplierRepository interface {
	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByCode finds a supplier by code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// Save creates or updates a supplier (used by fixtures and tests)
	Save(ctx context.Context, supplier *Supplier) error
}
