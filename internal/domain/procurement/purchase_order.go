package procurement

import (
	"fmt"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/flexiwear/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the logistics status of a purchase order
type PurchaseOrderStatus string

const (
	StatusDraft           PurchaseOrderStatus = "DRAFT"
	StatusApproved        PurchaseOrderStatus = "APPROVED"
	StatusSent            PurchaseOrderStatus = "SENT"
	StatusConfirmed       PurchaseOrderStatus = "CONFIRMED"
	StatusInTransit       PurchaseOrderStatus = "IN_TRANSIT"
	StatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	StatusReceived        PurchaseOrderStatus = "RECEIVED"
	StatusClosed          PurchaseOrderStatus = "CLOSED"
	StatusCancelled       PurchaseOrderStatus = "CANCELLED"
)

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusSent, StatusConfirmed, StatusInTransit,
		StatusPartialReceived, StatusReceived, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for the two immutable end states
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are monotonic along the receiving pipeline; CANCELLED is the
// escape hatch reachable from every state except CLOSED.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == StatusCancelled {
		return s != StatusClosed && s != StatusCancelled
	}
	switch s {
	case StatusDraft:
		return target == StatusApproved
	case StatusApproved:
		return target == StatusSent
	case StatusSent:
		return target == StatusConfirmed || target == StatusPartialReceived || target == StatusReceived
	case StatusConfirmed:
		return target == StatusInTransit || target == StatusPartialReceived || target == StatusReceived
	case StatusInTransit:
		return target == StatusPartialReceived || target == StatusReceived
	case StatusPartialReceived:
		return target == StatusPartialReceived || target == StatusReceived
	case StatusReceived:
		return target == StatusClosed
	case StatusClosed, StatusCancelled:
		return false
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	switch s {
	case StatusSent, StatusConfirmed, StatusInTransit, StatusPartialReceived:
		return true
	}
	return false
}

// OrderType classifies why the purchase order exists
type OrderType string

const (
	OrderTypeStockReplenishment   OrderType = "STOCK_REPLENISHMENT"
	OrderTypeBackorderFulfillment OrderType = "BACKORDER_FULFILLMENT"
	OrderTypeCrossDocking         OrderType = "CROSS_DOCKING"
	OrderTypeEmergency            OrderType = "EMERGENCY"
)

// IsValid checks if the order type is known
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeStockReplenishment, OrderTypeBackorderFulfillment, OrderTypeCrossDocking, OrderTypeEmergency:
		return true
	}
	return false
}

// Priority represents the urgency of a purchase order
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityHigh || p == PriorityUrgent
}

// PaymentStatus tracks the finance side of the order. It is orthogonal to
// the logistics status: a PO can be RECEIVED while still unpaid.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "PENDING"
	PaymentPartialPaid PaymentStatus = "PARTIAL_PAID"
	PaymentPaid        PaymentStatus = "PAID"
	PaymentOverdue     PaymentStatus = "OVERDUE"
)

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	OrderedQty  int             `gorm:"not null"`
	ReceivedQty int             `gorm:"not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQty * UnitCost

	// Cross-docking: when set, received units route to this sales order
	// instead of generic stock
	SalesOrderID *uuid.UUID `gorm:"type:uuid;index"`
	// Orphaned is set when the linked sales order was cancelled before
	// receipt and the line fell back to stock routing
	Orphaned bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID uuid.UUID, productCode, productName string, quantity int, unitCost valueobject.Money) (*PurchaseOrderItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductCode: productCode,
		ProductName: productName,
		OrderedQty:  quantity,
		ReceivedQty: 0,
		UnitCost:    unitCost.Amount(),
		Amount:      unitCost.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RemainingQty returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQty() int {
	remaining := i.OrderedQty - i.ReceivedQty
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQty >= i.OrderedQty
}

// IsCrossDocked returns true if the line is linked to a sales order
func (i *PurchaseOrderItem) IsCrossDocked() bool {
	return i.SalesOrderID != nil
}

// addReceivedQty adds to the received quantity. The caller must have
// validated the increment against the ordered quantity first.
func (i *PurchaseOrderItem) addReceivedQty(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if i.ReceivedQty+quantity > i.OrderedQty {
		return shared.NewDomainError(shared.CodeOverReceipt,
			fmt.Sprintf("Cannot receive %d units of %s, only %d remaining", quantity, i.ProductCode, i.RemainingQty()))
	}
	i.ReceivedQty += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// markOrphaned flags the line after a cross-dock fallback
func (i *PurchaseOrderItem) markOrphaned() {
	i.Orphaned = true
	i.UpdatedAt = time.Now()
}

// updateQuantity changes the ordered quantity and recalculates the amount
func (i *PurchaseOrderItem) updateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity < i.ReceivedQty {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than received quantity")
	}
	i.OrderedQty = quantity
	i.Amount = i.UnitCost.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
	return nil
}

// LineReceipt is one line of a receiving operation
type LineReceipt struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// ReceivedLine describes a line update applied by Receive, for routing
// by the caller (generic stock or cross-dock)
type ReceivedLine struct {
	ItemID       uuid.UUID
	ProductCode  string
	ProductName  string
	Quantity     int
	UnitCost     decimal.Decimal
	SalesOrderID *uuid.UUID
}

// PurchaseOrder is the aggregate root owning the PO lifecycle from draft
// through receipt and closure
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	Type         OrderType           `gorm:"type:varchar(30);not null;default:'STOCK_REPLENISHMENT'"`
	Priority     Priority            `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of all line amounts

	PaymentStatus  PaymentStatus   `gorm:"type:varchar(15);not null;default:'PENDING'"`
	AdvancePayment decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentDueAt   *time.Time

	ExpectedDeliveryAt *time.Time
	ActualDeliveryAt   *time.Time

	// Notes carries free text, including the originating recommendation
	// metadata when the order was drafted from a replenishment alert
	Notes      string `gorm:"type:text"`
	ApprovedBy string `gorm:"type:varchar(100)"`

	ApprovedAt   *time.Time
	SentAt       *time.Time
	ConfirmedAt  *time.Time
	ShippedAt    *time.Time
	ReceivedAt   *time.Time
	ClosedAt     *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, orderType OrderType, priority Priority) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", fmt.Sprintf("Unknown order type %q", orderType))
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority %q", priority))
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Type:              orderType,
		Priority:          priority,
		Status:            StatusDraft,
		Items:             make([]PurchaseOrderItem, 0),
		TotalAmount:       decimal.Zero,
		PaymentStatus:     PaymentPending,
		AdvancePayment:    decimal.Zero,
		PaidAmount:        decimal.Zero,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// invalidTransition builds the error returned for every rejected lifecycle
// move. The message names both the current and the attempted status so the
// caller can explain the prior state instead of a generic failure.
func (o *PurchaseOrder) invalidTransition(target PurchaseOrderStatus) error {
	return shared.NewDomainError(shared.CodeInvalidTransition,
		fmt.Sprintf("Order %s cannot move from %s to %s", o.OrderNumber, o.Status, target))
}

// AddItem adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddItem(productCode, productName string, quantity int, unitCost valueobject.Money) (*PurchaseOrderItem, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot add items to order %s in %s status", o.OrderNumber, o.Status))
	}
	for _, item := range o.Items {
		if item.ProductCode == productCode {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productCode, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.touch()

	return item, nil
}

// UpdateItemQuantity changes the ordered quantity of a line. DRAFT only.
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot update items on order %s in %s status", o.OrderNumber, o.Status))
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].updateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line from the order. DRAFT only.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot remove items from order %s in %s status", o.OrderNumber, o.Status))
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetNotes sets the free-text notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.touch()
}

// SetExpectedDelivery sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDelivery(at time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Order %s is %s and cannot be modified", o.OrderNumber, o.Status))
	}
	o.ExpectedDeliveryAt = &at
	o.touch()
	return nil
}

// Approve moves the order from DRAFT to APPROVED, recording who approved it
func (o *PurchaseOrder) Approve(approver string) error {
	if !o.Status.CanTransitionTo(StatusApproved) {
		return o.invalidTransition(StatusApproved)
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver identity is required")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve order without items")
	}

	now := time.Now()
	o.Status = StatusApproved
	o.ApprovedBy = approver
	o.ApprovedAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o, approver))

	return nil
}

// Send marks the order as transmitted to the supplier. The actual supplier
// notification is a side effect handled by the application layer.
func (o *PurchaseOrder) Send() error {
	if !o.Status.CanTransitionTo(StatusSent) {
		return o.invalidTransition(StatusSent)
	}

	now := time.Now()
	o.Status = StatusSent
	o.SentAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderSentEvent(o))

	return nil
}

// Confirm records the supplier's confirmation of the order
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return o.invalidTransition(StatusConfirmed)
	}

	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// MarkInTransit records that the supplier has shipped the goods
func (o *PurchaseOrder) MarkInTransit() error {
	if !o.Status.CanTransitionTo(StatusInTransit) {
		return o.invalidTransition(StatusInTransit)
	}

	now := time.Now()
	o.Status = StatusInTransit
	o.ShippedAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderShippedEvent(o))

	return nil
}

// Receive processes receipt of goods against one or more lines. Every line
// is validated before any is applied: an over-receipt on one line rejects
// the whole batch and leaves all received quantities unchanged. Receipts
// with zero quantity are skipped. The order advances to PARTIAL_RECEIVED or,
// once every line is fully received, to RECEIVED.
func (o *PurchaseOrder) Receive(receipts []LineReceipt) ([]ReceivedLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot receive goods for order %s in %s status", o.OrderNumber, o.Status))
	}
	if len(receipts) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receipt lines cannot be empty")
	}

	// Validation pass: resolve every line and check quantities before any
	// mutation, so a bad line cannot leave the batch half-applied.
	type pending struct {
		idx int
		qty int
	}
	applies := make([]pending, 0, len(receipts))
	for _, r := range receipts {
		if r.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Receive quantity for line %s cannot be negative", r.ItemID))
		}
		if r.Quantity == 0 {
			continue
		}
		idx := -1
		for i := range o.Items {
			if o.Items[i].ID == r.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND",
				fmt.Sprintf("Line %s not found on order %s", r.ItemID, o.OrderNumber))
		}
		if o.Items[idx].ReceivedQty+r.Quantity > o.Items[idx].OrderedQty {
			return nil, shared.NewDomainError(shared.CodeOverReceipt,
				fmt.Sprintf("Cannot receive %d units of %s, only %d remaining",
					r.Quantity, o.Items[idx].ProductCode, o.Items[idx].RemainingQty()))
		}
		applies = append(applies, pending{idx: idx, qty: r.Quantity})
	}
	if len(applies) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receipt batch contains no quantities")
	}

	received := make([]ReceivedLine, 0, len(applies))
	for _, p := range applies {
		if err := o.Items[p.idx].addReceivedQty(p.qty); err != nil {
			return nil, err
		}
		received = append(received, ReceivedLine{
			ItemID:       o.Items[p.idx].ID,
			ProductCode:  o.Items[p.idx].ProductCode,
			ProductName:  o.Items[p.idx].ProductName,
			Quantity:     p.qty,
			UnitCost:     o.Items[p.idx].UnitCost,
			SalesOrderID: o.Items[p.idx].SalesOrderID,
		})
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = StatusReceived
		o.ReceivedAt = &now
		o.ActualDeliveryAt = &now
	} else {
		o.Status = StatusPartialReceived
	}
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))

	return received, nil
}

// Close closes a fully received order. Payment status does not gate closure.
func (o *PurchaseOrder) Close() error {
	if !o.Status.CanTransitionTo(StatusClosed) {
		return o.invalidTransition(StatusClosed)
	}

	now := time.Now()
	o.Status = StatusClosed
	o.ClosedAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderClosedEvent(o))

	return nil
}

// Cancel cancels the order from any non-terminal state. Receipts already
// posted stay posted: cancellation performs no compensating stock
// adjustment, that is a manual audited follow-up.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return o.invalidTransition(StatusCancelled)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, o.HasReceipts()))

	return nil
}

// RecordPayment posts a payment against the order. The finance workflow is
// orthogonal to the logistics machine but terminal orders stay immutable.
func (o *PurchaseOrder) RecordPayment(amount valueobject.Money) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Order %s is %s and cannot accept payments", o.OrderNumber, o.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	o.PaidAmount = o.PaidAmount.Add(amount.Amount())
	if o.PaidAmount.GreaterThanOrEqual(o.TotalAmount) && o.TotalAmount.IsPositive() {
		o.PaymentStatus = PaymentPaid
	} else {
		o.PaymentStatus = PaymentPartialPaid
	}
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderPaymentRecordedEvent(o, amount.Amount()))

	return nil
}

// RecordAdvancePayment posts an advance payment made before receipt
func (o *PurchaseOrder) RecordAdvancePayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance payment must be positive")
	}
	o.AdvancePayment = o.AdvancePayment.Add(amount.Amount())
	o.touch()
	return o.RecordPayment(amount)
}

// SetPaymentDue sets the payment due date, typically from supplier credit terms
func (o *PurchaseOrder) SetPaymentDue(at time.Time) {
	o.PaymentDueAt = &at
	o.touch()
}

// MarkOverdueIfDue flips an unpaid order to OVERDUE once the due date has
// passed. Returns true if the status changed.
func (o *PurchaseOrder) MarkOverdueIfDue(now time.Time) bool {
	if o.PaymentStatus == PaymentPaid || o.PaymentDueAt == nil {
		return false
	}
	if o.Status == StatusCancelled {
		return false
	}
	if now.After(*o.PaymentDueAt) && o.PaymentStatus != PaymentOverdue {
		o.PaymentStatus = PaymentOverdue
		o.touch()
		return true
	}
	return false
}

// LinkItemToSalesOrder links a line to a pending sales order for
// cross-docking. Routing must be decided before shipment: linking is valid
// only while the order is DRAFT or APPROVED.
func (o *PurchaseOrder) LinkItemToSalesOrder(itemID, salesOrderID uuid.UUID) error {
	if o.Status != StatusDraft && o.Status != StatusApproved {
		return shared.NewDomainError(shared.CodePOAlreadyInTransit,
			fmt.Sprintf("Order %s is %s; cross-dock links must be set before sending", o.OrderNumber, o.Status))
	}
	if salesOrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_SALES_ORDER", "Sales order ID cannot be empty")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			soID := salesOrderID
			o.Items[idx].SalesOrderID = &soID
			o.Items[idx].UpdatedAt = time.Now()
			o.touch()
			o.AddDomainEvent(NewItemLinkedToSalesOrderEvent(o, itemID, salesOrderID))
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// MarkItemOrphaned flags a cross-docked line whose sales order was cancelled
// before receipt. Non-fatal: the quantity falls back to generic stock.
func (o *PurchaseOrder) MarkItemOrphaned(itemID uuid.UUID) error {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].markOrphaned()
			o.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// Duplicate creates a new DRAFT order copying supplier, type, priority and
// line items, with all receipt and payment counters reset to zero
func (o *PurchaseOrder) Duplicate(newOrderNumber string) (*PurchaseOrder, error) {
	dup, err := NewPurchaseOrder(newOrderNumber, o.SupplierID, o.SupplierName, o.Type, o.Priority)
	if err != nil {
		return nil, err
	}
	for _, item := range o.Items {
		if _, err := dup.AddItem(item.ProductCode, item.ProductName, item.OrderedQty, valueobject.NewMoneyUSD(item.UnitCost)); err != nil {
			return nil, err
		}
	}
	dup.Notes = o.Notes
	return dup, nil
}

// HasReceipts returns true if any goods have been received
func (o *PurchaseOrder) HasReceipts() bool {
	for _, item := range o.Items {
		if item.ReceivedQty > 0 {
			return true
		}
	}
	return false
}

// TotalOrderedQty returns the total ordered quantity across all lines
func (o *PurchaseOrder) TotalOrderedQty() int {
	total := 0
	for _, item := range o.Items {
		total += item.OrderedQty
	}
	return total
}

// TotalReceivedQty returns the total received quantity across all lines
func (o *PurchaseOrder) TotalReceivedQty() int {
	total := 0
	for _, item := range o.Items {
		total += item.ReceivedQty
	}
	return total
}

// OutstandingAmount returns how much remains to be paid
func (o *PurchaseOrder) OutstandingAmount() decimal.Decimal {
	outstanding := o.TotalAmount.Sub(o.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns a line by product code
func (o *PurchaseOrder) GetItemByProduct(productCode string) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductCode == productCode {
			return &o.Items[idx]
		}
	}
	return nil
}

// recalculateTotal recalculates the order total from its lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

// isFullyReceived checks whether every line has been fully received
func (o *PurchaseOrder) isFullyReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// touch updates the modification timestamp. The version counter belongs
// to the repository save path, not to individual mutations.
func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
}
