package procurement

import (
	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for the purchase order aggregate
const (
	EventTypePurchaseOrderCreated         = "procurement.purchase_order_created"
	EventTypePurchaseOrderApproved        = "procurement.purchase_order_approved"
	EventTypePurchaseOrderSent            = "procurement.purchase_order_sent"
	EventTypePurchaseOrderConfirmed       = "procurement.purchase_order_confirmed"
	EventTypePurchaseOrderShipped         = "procurement.purchase_order_shipped"
	EventTypePurchaseOrderReceived        = "procurement.purchase_order_received"
	EventTypePurchaseOrderClosed          = "procurement.purchase_order_closed"
	EventTypePurchaseOrderCancelled       = "procurement.purchase_order_cancelled"
	EventTypePurchaseOrderPaymentRecorded = "procurement.purchase_order_payment_recorded"
	EventTypeItemLinkedToSalesOrder       = "procurement.item_linked_to_sales_order"
)

const aggregateTypePurchaseOrder = "PurchaseOrder"

// PurchaseOrderCreatedEvent is emitted when a new order is drafted
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	OrderType   OrderType `json:"order_type"`
	Priority    Priority  `json:"priority"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		OrderType:       order.Type,
		Priority:        order.Priority,
	}
}

// PurchaseOrderApprovedEvent is emitted when an order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	ApprovedBy  string          `json:"approved_by"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder, approver string) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		ApprovedBy:      approver,
		TotalAmount:     order.TotalAmount,
	}
}

// PurchaseOrderSentEvent is emitted when an order is transmitted to the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderSentEvent creates a new PurchaseOrderSentEvent
func NewPurchaseOrderSentEvent(order *PurchaseOrder) *PurchaseOrderSentEvent {
	return &PurchaseOrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSent, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderConfirmedEvent is emitted when the supplier confirms the order
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderShippedEvent is emitted when the goods enter transit
type PurchaseOrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderShippedEvent creates a new PurchaseOrderShippedEvent
func NewPurchaseOrderShippedEvent(order *PurchaseOrder) *PurchaseOrderShippedEvent {
	return &PurchaseOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderShipped, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderReceivedEvent is emitted after a receipt batch is applied
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string              `json:"order_number"`
	Status        PurchaseOrderStatus `json:"status"`
	ReceivedLines []ReceivedLine      `json:"received_lines"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, lines []ReceivedLine) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		ReceivedLines:   lines,
	}
}

// PurchaseOrderClosedEvent is emitted when a fully received order is closed
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderClosedEvent creates a new PurchaseOrderClosedEvent
func NewPurchaseOrderClosedEvent(order *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderClosed, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderCancelledEvent is emitted when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
	HadReceipts bool   `json:"had_receipts"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, hadReceipts bool) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
		HadReceipts:     hadReceipts,
	}
}

// PurchaseOrderPaymentRecordedEvent is emitted when a payment is posted
type PurchaseOrderPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewPurchaseOrderPaymentRecordedEvent creates a new PurchaseOrderPaymentRecordedEvent
func NewPurchaseOrderPaymentRecordedEvent(order *PurchaseOrder, amount decimal.Decimal) *PurchaseOrderPaymentRecordedEvent {
	return &PurchaseOrderPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderPaymentRecorded, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		Amount:          amount,
		PaidAmount:      order.PaidAmount,
		PaymentStatus:   order.PaymentStatus,
	}
}

// ItemLinkedToSalesOrderEvent is emitted when a line is marked for cross-docking
type ItemLinkedToSalesOrderEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string    `json:"order_number"`
	ItemID       uuid.UUID `json:"item_id"`
	SalesOrderID uuid.UUID `json:"sales_order_id"`
}

// NewItemLinkedToSalesOrderEvent creates a new ItemLinkedToSalesOrderEvent
func NewItemLinkedToSalesOrderEvent(order *PurchaseOrder, itemID, salesOrderID uuid.UUID) *ItemLinkedToSalesOrderEvent {
	return &ItemLinkedToSalesOrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemLinkedToSalesOrder, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		ItemID:          itemID,
		SalesOrderID:    salesOrderID,
	}
}
