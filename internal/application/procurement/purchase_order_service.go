package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/flexiwear/backend/internal/domain/inventory"
	"github.com/flexiwear/backend/internal/domain/partner"
	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/flexiwear/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierNotifier delivers order lifecycle notifications to suppliers.
// Delivery is best effort: a failed notification never rolls back the state
// change that triggered it.
type SupplierNotifier interface {
	// NotifyOrderSent tells the supplier a purchase order is on its way
	NotifyOrderSent(ctx context.Context, order *procurement.PurchaseOrder) error

	// NotifyOrderCancelled tells the supplier an already-sent order was cancelled
	NotifyOrderCancelled(ctx context.Context, order *procurement.PurchaseOrder) error
}

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	stockRepo      inventory.ProductStockRepository
	txScope        TransactionScope
	crossDock      *CrossDockCoordinator
	eventPublisher shared.EventPublisher
	notifier       SupplierNotifier
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	stockRepo inventory.ProductStockRepository,
	txScope TransactionScope,
	crossDock *CrossDockCoordinator,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		stockRepo:    stockRepo,
		txScope:      txScope,
		crossDock:    crossDock,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetSupplierNotifier sets the supplier notification sink
func (s *PurchaseOrderService) SetSupplierNotifier(notifier SupplierNotifier) {
	s.notifier = notifier
}

// Create creates a new purchase order in DRAFT status
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_SUPPLIER",
			fmt.Sprintf("Supplier %s is inactive and cannot receive orders", supplier.Code))
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	orderType := procurement.OrderType(req.Type)
	if req.Type == "" {
		orderType = procurement.OrderTypeStockReplenishment
	}
	priority := procurement.Priority(req.Priority)
	if req.Priority == "" {
		priority = procurement.PriorityNormal
	}

	order, err := procurement.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name, orderType, priority)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitCost := valueobject.NewMoneyUSD(item.UnitCost)
		if _, err := order.AddItem(item.ProductCode, item.ProductName, item.Quantity, unitCost); err != nil {
			return nil, err
		}
	}

	if req.ExpectedDeliveryAt != nil {
		if err := order.SetExpectedDelivery(*req.ExpectedDeliveryAt); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// CreateFromRecommendation drafts a replenishment order for a product from
// its stored reorder figures: the latest suggested quantity at the moving
// average unit cost, addressed to the product's supplier. Drafting is an
// explicit operator action; the scheduler only recommends.
func (s *PurchaseOrderService) CreateFromRecommendation(ctx context.Context, req CreateFromRecommendationRequest) (*PurchaseOrderResponse, error) {
	stock, err := s.stockRepo.FindByProductCode(ctx, req.ProductCode)
	if err != nil {
		return nil, err
	}
	if stock.SuggestedOrderQty <= 0 {
		return nil, shared.NewDomainError("NO_REPLENISHMENT_NEEDED",
			fmt.Sprintf("Product %s has no open replenishment recommendation", req.ProductCode))
	}

	supplier, err := s.supplierRepo.FindByID(ctx, stock.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_SUPPLIER",
			fmt.Sprintf("Supplier %s is inactive and cannot receive orders", supplier.Code))
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	priority := procurement.Priority(req.Priority)
	if req.Priority == "" {
		priority = procurement.PriorityNormal
		if stock.IsOutOfStock() {
			priority = procurement.PriorityUrgent
		}
	}

	order, err := procurement.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name,
		procurement.OrderTypeStockReplenishment, priority)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddItem(stock.ProductCode, stock.ProductName, stock.SuggestedOrderQty, stock.UnitCostMoney()); err != nil {
		return nil, err
	}
	order.SetNotes(fmt.Sprintf("Drafted from replenishment recommendation (reorder point %d, on hand %d)",
		derefInt(stock.ReorderPoint), stock.OnHand))

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	if filter.SupplierID != nil {
		orders, err := s.orderRepo.FindBySupplier(ctx, *filter.SupplierID, domainFilter)
		if err != nil {
			return nil, err
		}
		return ToPurchaseOrderResponses(orders), nil
	}

	status := procurement.StatusDraft
	if filter.Status != nil {
		status = procurement.PurchaseOrderStatus(*filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", *filter.Status))
		}
	}
	orders, err := s.orderRepo.FindByStatus(ctx, status, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(orders), nil
}

// AddItem adds an item to a draft purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		_, err := order.AddItem(req.ProductCode, req.ProductName, req.Quantity, valueobject.NewMoneyUSD(req.UnitCost))
		return err
	})
}

// UpdateItemQuantity changes an ordered quantity on a draft purchase order
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, req UpdateItemQuantityRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.UpdateItemQuantity(itemID, req.Quantity)
	})
}

// RemoveItem removes an item from a draft purchase order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.RemoveItem(itemID)
	})
}

// Approve approves a draft purchase order
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uuid.UUID, req ApprovePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Approve(req.ApprovedBy)
	})
}

// Send marks an approved order as sent and notifies the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	response, err := s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Send()
	})
	if err != nil {
		return nil, err
	}
	s.notifySent(ctx, response.ID)
	return response, nil
}

// Confirm records the supplier's confirmation and schedules the payment due
// date from the supplier's credit terms
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Confirm(); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByID(ctx, order.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.CreditDays > 0 && order.ConfirmedAt != nil {
		order.SetPaymentDue(supplier.PaymentDueDate(*order.ConfirmedAt))
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// MarkInTransit records that the supplier shipped the order
func (s *PurchaseOrderService) MarkInTransit(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.MarkInTransit()
	})
}

// Receive posts a goods receipt against an order: order counters, stock
// levels and cross-dock allocations move in one transaction. Over-receipt
// on any line rejects the whole batch.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (*ReceiveResultResponse, error) {
	receipts := make([]procurement.LineReceipt, 0, len(req.Lines))
	for _, line := range req.Lines {
		receipts = append(receipts, procurement.LineReceipt{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	var order *procurement.PurchaseOrder
	var routings []LineRouting

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		received, err := order.Receive(receipts)
		if err != nil {
			return err
		}

		routings = make([]LineRouting, 0, len(received))
		for _, line := range received {
			routing, err := s.crossDock.RouteReceipt(ctx, order, line)
			if err != nil {
				return err
			}
			if routing.AddedToStock > 0 {
				if err := s.addToStock(ctx, repos.StockRepo(), order.SupplierID, line, routing.AddedToStock); err != nil {
					return err
				}
			}
			routings = append(routings, routing)
		}

		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	return &ReceiveResultResponse{
		Order:           ToPurchaseOrderResponse(order),
		Lines:           toRoutingResponses(routings),
		IsFullyReceived: order.Status == procurement.StatusReceived,
	}, nil
}

// addToStock books received units into the product stock record, updating
// the moving average cost. Products unknown to the stock ledger are created
// on first receipt.
func (s *PurchaseOrderService) addToStock(ctx context.Context, stockRepo inventory.ProductStockRepository, supplierID uuid.UUID, line procurement.ReceivedLine, quantity int) error {
	stock, err := stockRepo.FindByProductCode(ctx, line.ProductCode)
	if err != nil {
		if !shared.IsDomainError(err, "NOT_FOUND") {
			return err
		}
		stock, err = inventory.NewProductStock(line.ProductCode, line.ProductName, supplierID)
		if err != nil {
			return err
		}
		if err := stock.IncreaseStock(quantity, valueobject.NewMoneyUSD(line.UnitCost)); err != nil {
			return err
		}
		return stockRepo.Save(ctx, stock)
	}
	if err := stock.IncreaseStock(quantity, valueobject.NewMoneyUSD(line.UnitCost)); err != nil {
		return err
	}
	return stockRepo.SaveWithLock(ctx, stock)
}

// Close closes a fully received order
func (s *PurchaseOrderService) Close(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Close()
	})
}

// Cancel cancels a purchase order. Receipts already posted stay booked; the
// supplier is notified when the order had already gone out.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	wasSent := order.SentAt != nil

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	if wasSent && s.notifier != nil {
		if err := s.notifier.NotifyOrderCancelled(ctx, order); err != nil {
			s.logger.Warn("supplier cancellation notice failed",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RecordPayment records a payment against an order
func (s *PurchaseOrderService) RecordPayment(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.RecordPayment(valueobject.NewMoneyUSD(req.Amount))
	})
}

// RecordAdvancePayment records an advance payment on an order
func (s *PurchaseOrderService) RecordAdvancePayment(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.RecordAdvancePayment(valueobject.NewMoneyUSD(req.Amount))
	})
}

// LinkItemToSalesOrder earmarks an order line for a customer sales order
func (s *PurchaseOrderService) LinkItemToSalesOrder(ctx context.Context, orderID uuid.UUID, req LinkItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.LinkItemToSalesOrder(req.ItemID, req.SalesOrderID)
	})
}

// Duplicate creates a new draft from an existing order's lines
func (s *PurchaseOrderService) Duplicate(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	source, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	duplicate, err := source.Duplicate(orderNumber)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, duplicate); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, duplicate)

	response := ToPurchaseOrderResponse(duplicate)
	return &response, nil
}

// DeleteDraft removes an order that never left DRAFT
func (s *PurchaseOrderService) DeleteDraft(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != procurement.StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, orderID)
}

// MarkOverduePayments flips unpaid orders past their due date to OVERDUE.
// Invoked by the scheduler; returns how many orders were marked.
func (s *PurchaseOrderService) MarkOverduePayments(ctx context.Context, now time.Time) (int, error) {
	orders, err := s.orderRepo.FindUnpaidDue(ctx)
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range orders {
		order := &orders[i]
		if !order.MarkOverdueIfDue(now) {
			continue
		}
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			s.logger.Warn("marking payment overdue failed",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
			continue
		}
		marked++
	}
	return marked, nil
}

// mutate loads an order, applies fn, then saves with optimistic locking and
// publishes the resulting domain events
func (s *PurchaseOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// publishDomainEvents publishes all collected domain events from the order
func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// notifySent delivers the sent notice after the state change is durable
func (s *PurchaseOrderService) notifySent(ctx context.Context, orderID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("reload for supplier notification failed", zap.Error(err))
		return
	}
	if err := s.notifier.NotifyOrderSent(ctx, order); err != nil {
		s.logger.Warn("supplier sent notice failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

func toRoutingResponses(routings []LineRouting) []ReceiptRoutingResponse {
	responses := make([]ReceiptRoutingResponse, 0, len(routings))
	for _, r := range routings {
		responses = append(responses, ReceiptRoutingResponse{
			ItemID:           r.ItemID,
			ProductCode:      r.ProductCode,
			Quantity:         r.Quantity,
			AllocatedToSales: r.AllocatedToSales,
			AddedToStock:     r.AddedToStock,
			SalesOrderID:     r.SalesOrderID,
			Orphaned:         r.Orphaned,
		})
	}
	return responses
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
