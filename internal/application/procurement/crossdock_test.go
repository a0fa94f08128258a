package procurement

import (
	"context"
	"testing"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/flexiwear/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func crossDockOrder(t *testing.T, salesOrderID uuid.UUID, quantity int) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder("PO-202509-0100", uuid.New(), "Acme Textiles",
		procurement.OrderTypeCrossDocking, procurement.PriorityHigh)
	require.NoError(t, err)
	item, err := order.AddItem("CG-TGT-S", "Compression Tights S", quantity, valueobject.NewMoneyUSDFromFloat(15))
	require.NoError(t, err)
	require.NoError(t, order.LinkItemToSalesOrder(item.ID, salesOrderID))
	require.NoError(t, order.Approve("ops"))
	require.NoError(t, order.Send())
	order.ClearDomainEvents()
	return order
}

func TestRouteReceiptSplitsBetweenSalesOrderAndStock(t *testing.T) {
	gateway := new(MockSalesOrderGateway)
	coordinator := NewCrossDockCoordinator(gateway, nil)

	salesOrderID := uuid.New()
	order := crossDockOrder(t, salesOrderID, 40)
	itemID := order.Items[0].ID

	// the customer order still waits for 25 of the 40 received units
	gateway.On("OutstandingNeed", mock.Anything, salesOrderID, "CG-TGT-S").Return(25, true, nil)
	gateway.On("AllocateReceipt", mock.Anything, salesOrderID, "CG-TGT-S", 25).Return(nil)

	received, err := order.Receive([]procurement.LineReceipt{{ItemID: itemID, Quantity: 40}})
	require.NoError(t, err)
	require.Len(t, received, 1)

	routing, err := coordinator.RouteReceipt(context.Background(), order, received[0])
	require.NoError(t, err)

	assert.Equal(t, 25, routing.AllocatedToSales)
	assert.Equal(t, 15, routing.AddedToStock)
	assert.False(t, routing.Orphaned)
	gateway.AssertExpectations(t)
}

func TestRouteReceiptFullAllocationWhenNeedExceedsReceipt(t *testing.T) {
	gateway := new(MockSalesOrderGateway)
	coordinator := NewCrossDockCoordinator(gateway, nil)

	salesOrderID := uuid.New()
	order := crossDockOrder(t, salesOrderID, 40)
	itemID := order.Items[0].ID

	gateway.On("OutstandingNeed", mock.Anything, salesOrderID, "CG-TGT-S").Return(40, true, nil)
	gateway.On("AllocateReceipt", mock.Anything, salesOrderID, "CG-TGT-S", 10).Return(nil)

	received, err := order.Receive([]procurement.LineReceipt{{ItemID: itemID, Quantity: 10}})
	require.NoError(t, err)

	routing, err := coordinator.RouteReceipt(context.Background(), order, received[0])
	require.NoError(t, err)
	assert.Equal(t, 10, routing.AllocatedToSales)
	assert.Zero(t, routing.AddedToStock)
}

func TestRouteReceiptOrphansDeadLink(t *testing.T) {
	gateway := new(MockSalesOrderGateway)
	coordinator := NewCrossDockCoordinator(gateway, nil)

	salesOrderID := uuid.New()
	order := crossDockOrder(t, salesOrderID, 40)
	itemID := order.Items[0].ID

	// the customer cancelled while the goods were in transit
	gateway.On("OutstandingNeed", mock.Anything, salesOrderID, "CG-TGT-S").Return(0, false, nil)

	received, err := order.Receive([]procurement.LineReceipt{{ItemID: itemID, Quantity: 40}})
	require.NoError(t, err)

	routing, err := coordinator.RouteReceipt(context.Background(), order, received[0])
	require.NoError(t, err)

	assert.True(t, routing.Orphaned)
	assert.Equal(t, 40, routing.AddedToStock)
	assert.Zero(t, routing.AllocatedToSales)
	assert.True(t, order.Items[0].Orphaned, "the dead link is recorded on the order line")
	gateway.AssertNotCalled(t, "AllocateReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteReceiptUnlinkedLineGoesToStock(t *testing.T) {
	gateway := new(MockSalesOrderGateway)
	coordinator := NewCrossDockCoordinator(gateway, nil)

	order, err := procurement.NewPurchaseOrder("PO-202509-0101", uuid.New(), "Acme Textiles",
		procurement.OrderTypeStockReplenishment, procurement.PriorityNormal)
	require.NoError(t, err)
	item, err := order.AddItem("CG-SLV-M", "Compression Sleeve M", 30, valueobject.NewMoneyUSDFromFloat(8))
	require.NoError(t, err)
	require.NoError(t, order.Approve("ops"))
	require.NoError(t, order.Send())

	received, err := order.Receive([]procurement.LineReceipt{{ItemID: item.ID, Quantity: 30}})
	require.NoError(t, err)

	routing, err := coordinator.RouteReceipt(context.Background(), order, received[0])
	require.NoError(t, err)
	assert.Equal(t, 30, routing.AddedToStock)
	gateway.AssertNotCalled(t, "OutstandingNeed", mock.Anything, mock.Anything, mock.Anything)
}

func TestEndToEndCrossDockReceiveThroughService(t *testing.T) {
	f := newServiceFixture(t)
	supplier := activeSupplier(t)

	salesOrderID := uuid.New()
	order := crossDockOrder(t, salesOrderID, 40)
	itemID := order.Items[0].ID

	stock, err := inventory.NewProductStock("CG-TGT-S", "Compression Tights S", supplier.ID)
	require.NoError(t, err)

	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.gateway.On("OutstandingNeed", mock.Anything, salesOrderID, "CG-TGT-S").Return(25, true, nil)
	f.gateway.On("AllocateReceipt", mock.Anything, salesOrderID, "CG-TGT-S", 25).Return(nil)
	f.stockRepo.On("FindByProductCode", mock.Anything, "CG-TGT-S").Return(stock, nil)
	f.stockRepo.On("SaveWithLock", mock.Anything, stock).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := f.service.Receive(context.Background(), order.ID, ReceivePurchaseOrderRequest{
		Lines: []ReceiveLineInput{{ItemID: itemID, Quantity: 40}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 25, resp.Lines[0].AllocatedToSales)
	assert.Equal(t, 15, resp.Lines[0].AddedToStock)
	assert.Equal(t, 15, stock.OnHand, "only the overflow lands in general stock")
	assert.True(t, resp.IsFullyReceived)
	f.gateway.AssertExpectations(t)
}
