package procurement

import (
	"time"

	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID         uuid.UUID                      `json:"supplier_id" binding:"required"`
	Type               string                         `json:"type" binding:"omitempty,oneof=STOCK_REPLENISHMENT BACKORDER_FULFILLMENT CROSS_DOCKING EMERGENCY"`
	Priority           string                         `json:"priority" binding:"omitempty,oneof=NORMAL HIGH URGENT"`
	Items              []CreatePurchaseOrderItemInput `json:"items"`
	ExpectedDeliveryAt *time.Time                     `json:"expected_delivery_at"`
	Notes              string                         `json:"notes"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreateFromRecommendationRequest drafts a replenishment order for a product
// from its stored reorder figures
type CreateFromRecommendationRequest struct {
	ProductCode string `json:"product_code" binding:"required,min=1,max=50"`
	Priority    string `json:"priority" binding:"omitempty,oneof=NORMAL HIGH URGENT"`
}

// AddItemRequest represents a request to add an item to a draft order
type AddItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// UpdateItemQuantityRequest changes an ordered quantity on a draft order
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ApprovePurchaseOrderRequest represents a request to approve an order
type ApprovePurchaseOrderRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,min=1,max=100"`
}

// ReceiveLineInput is one line of a receiving request
type ReceiveLineInput struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"min=0"`
}

// ReceivePurchaseOrderRequest represents a goods receipt against an order
type ReceivePurchaseOrderRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1"`
}

// CancelPurchaseOrderRequest represents a request to cancel an order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RecordPaymentRequest represents a payment against an order
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// LinkItemRequest earmarks an order line for a customer sales order
type LinkItemRequest struct {
	ItemID       uuid.UUID `json:"item_id" binding:"required"`
	SalesOrderID uuid.UUID `json:"sales_order_id" binding:"required"`
}

// PurchaseOrderListFilter represents filter options for order lists
type PurchaseOrderListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     *string    `form:"status"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderItemResponse represents an order line in API responses
type PurchaseOrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	OrderedQty   int             `json:"ordered_qty"`
	ReceivedQty  int             `json:"received_qty"`
	RemainingQty int             `json:"remaining_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Amount       decimal.Decimal `json:"amount"`
	SalesOrderID *uuid.UUID      `json:"sales_order_id,omitempty"`
	Orphaned     bool            `json:"orphaned,omitempty"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                 uuid.UUID                   `json:"id"`
	OrderNumber        string                      `json:"order_number"`
	SupplierID         uuid.UUID                   `json:"supplier_id"`
	SupplierName       string                      `json:"supplier_name"`
	Type               string                      `json:"type"`
	Priority           string                      `json:"priority"`
	Status             string                      `json:"status"`
	Items              []PurchaseOrderItemResponse `json:"items"`
	TotalOrderedQty    int                         `json:"total_ordered_qty"`
	TotalReceivedQty   int                         `json:"total_received_qty"`
	TotalAmount        decimal.Decimal             `json:"total_amount"`
	PaymentStatus      string                      `json:"payment_status"`
	AdvancePayment     decimal.Decimal             `json:"advance_payment"`
	PaidAmount         decimal.Decimal             `json:"paid_amount"`
	OutstandingAmount  decimal.Decimal             `json:"outstanding_amount"`
	PaymentDueAt       *time.Time                  `json:"payment_due_at,omitempty"`
	ExpectedDeliveryAt *time.Time                  `json:"expected_delivery_at,omitempty"`
	ActualDeliveryAt   *time.Time                  `json:"actual_delivery_at,omitempty"`
	Notes              string                      `json:"notes,omitempty"`
	ApprovedBy         string                      `json:"approved_by,omitempty"`
	CancelReason       string                      `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// ReceiptRoutingResponse reports where one received line went
type ReceiptRoutingResponse struct {
	ItemID           uuid.UUID  `json:"item_id"`
	ProductCode      string     `json:"product_code"`
	Quantity         int        `json:"quantity"`
	AllocatedToSales int        `json:"allocated_to_sales"`
	AddedToStock     int        `json:"added_to_stock"`
	SalesOrderID     *uuid.UUID `json:"sales_order_id,omitempty"`
	Orphaned         bool       `json:"orphaned,omitempty"`
}

// ReceiveResultResponse is the outcome of a receiving operation
type ReceiveResultResponse struct {
	Order           PurchaseOrderResponse    `json:"order"`
	Lines           []ReceiptRoutingResponse `json:"lines"`
	IsFullyReceived bool                     `json:"is_fully_received"`
}

// ToPurchaseOrderItemResponse converts a domain item to a response DTO
func ToPurchaseOrderItemResponse(item *procurement.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:           item.ID,
		ProductCode:  item.ProductCode,
		ProductName:  item.ProductName,
		OrderedQty:   item.OrderedQty,
		ReceivedQty:  item.ReceivedQty,
		RemainingQty: item.RemainingQty(),
		UnitCost:     item.UnitCost,
		Amount:       item.Amount,
		SalesOrderID: item.SalesOrderID,
		Orphaned:     item.Orphaned,
	}
}

// ToPurchaseOrderResponse converts a domain order to a response DTO
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, ToPurchaseOrderItemResponse(&order.Items[i]))
	}
	return PurchaseOrderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		SupplierID:         order.SupplierID,
		SupplierName:       order.SupplierName,
		Type:               string(order.Type),
		Priority:           string(order.Priority),
		Status:             string(order.Status),
		Items:              items,
		TotalOrderedQty:    order.TotalOrderedQty(),
		TotalReceivedQty:   order.TotalReceivedQty(),
		TotalAmount:        order.TotalAmount,
		PaymentStatus:      string(order.PaymentStatus),
		AdvancePayment:     order.AdvancePayment,
		PaidAmount:         order.PaidAmount,
		OutstandingAmount:  order.OutstandingAmount(),
		PaymentDueAt:       order.PaymentDueAt,
		ExpectedDeliveryAt: order.ExpectedDeliveryAt,
		ActualDeliveryAt:   order.ActualDeliveryAt,
		Notes:              order.Notes,
		ApprovedBy:         order.ApprovedBy,
		CancelReason:       order.CancelReason,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of domain orders
func ToPurchaseOrderResponses(orders []procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses
}
