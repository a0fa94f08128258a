package procurement

import (
	"context"

	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesOrderGateway is the coordinator's view of the order management
// system. The engine never owns sales orders; it only asks how many units a
// linked order still needs and hands allocations over.
type SalesOrderGateway interface {
	// OutstandingNeed returns how many units of the product the sales order
	// still waits for, and whether the order is still open for fulfillment
	OutstandingNeed(ctx context.Context, salesOrderID uuid.UUID, productCode string) (need int, open bool, err error)

	// AllocateReceipt assigns received units to the sales order
	AllocateReceipt(ctx context.Context, salesOrderID uuid.UUID, productCode string, quantity int) error
}

// LineRouting is the outcome of routing one received line
type LineRouting struct {
	ItemID           uuid.UUID
	ProductCode      string
	Quantity         int
	SalesOrderID     *uuid.UUID
	AllocatedToSales int
	AddedToStock     int
	Orphaned         bool
}

// CrossDockCoordinator routes received goods between linked sales orders
// and general stock. Lines without a sales-order link go straight to stock;
// linked lines fill the sales order first and overflow into stock.
type CrossDockCoordinator struct {
	salesOrders SalesOrderGateway
	logger      *zap.Logger
}

// NewCrossDockCoordinator creates a CrossDockCoordinator
func NewCrossDockCoordinator(salesOrders SalesOrderGateway, logger *zap.Logger) *CrossDockCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrossDockCoordinator{
		salesOrders: salesOrders,
		logger:      logger,
	}
}

// RouteReceipt decides where one received line's units go. When the linked
// sales order has been cancelled or completed in the meantime, the line is
// marked orphaned on the order and everything falls back to general stock;
// the receipt itself never fails for a dead link.
func (c *CrossDockCoordinator) RouteReceipt(ctx context.Context, order *procurement.PurchaseOrder, line procurement.ReceivedLine) (LineRouting, error) {
	routing := LineRouting{
		ItemID:       line.ItemID,
		ProductCode:  line.ProductCode,
		Quantity:     line.Quantity,
		SalesOrderID: line.SalesOrderID,
		AddedToStock: line.Quantity,
	}

	if line.SalesOrderID == nil {
		return routing, nil
	}

	need, open, err := c.salesOrders.OutstandingNeed(ctx, *line.SalesOrderID, line.ProductCode)
	if err != nil {
		return LineRouting{}, err
	}

	if !open || need <= 0 {
		if err := order.MarkItemOrphaned(line.ItemID); err != nil {
			return LineRouting{}, err
		}
		routing.Orphaned = true
		c.logger.Warn("cross-dock link is dead, routing receipt to stock",
			zap.String("order_number", order.OrderNumber),
			zap.String("product_code", line.ProductCode),
			zap.String("sales_order_id", line.SalesOrderID.String()),
			zap.Int("quantity", line.Quantity))
		return routing, nil
	}

	allocated := line.Quantity
	if need < allocated {
		allocated = need
	}
	if err := c.salesOrders.AllocateReceipt(ctx, *line.SalesOrderID, line.ProductCode, allocated); err != nil {
		return LineRouting{}, err
	}

	routing.AllocatedToSales = allocated
	routing.AddedToStock = line.Quantity - allocated

	c.logger.Info("cross-dock receipt routed",
		zap.String("order_number", order.OrderNumber),
		zap.String("product_code", line.ProductCode),
		zap.Int("allocated_to_sales", allocated),
		zap.Int("added_to_stock", routing.AddedToStock))

	return routing, nil
}
