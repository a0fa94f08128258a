package procurement

import (
	"context"

	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindOpenBySalesOrder finds non-terminal orders with a line linked to
	// the given sales order
	FindOpenBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]PurchaseOrder, error)

	// FindUnpaidDue finds orders whose payment due date has passed and are
	// not yet fully paid
	FindUnpaidDue(ctx context.Context) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order and its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check). Returns
	// shared.ErrConcurrencyConflict when the stored version differs, so two
	// concurrent receipts against the same order cannot both win.
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a DRAFT order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateOrderNumber produces the next sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
