package inventory

import (
	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the inventory aggregate
const (
	EventTypeStockIncreased      = "inventory.stock_increased"
	EventTypeStockDecreased      = "inventory.stock_decreased"
	EventTypeReorderPointUpdated = "inventory.reorder_point_updated"
)

const aggregateTypeProductStock = "ProductStock"

// StockIncreasedEvent is emitted when units are added to on-hand stock
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	NewOnHand   int             `json:"new_on_hand"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(stock *ProductStock, quantity int, unitCost decimal.Decimal) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, aggregateTypeProductStock, stock.ID),
		ProductCode:     stock.ProductCode,
		Quantity:        quantity,
		UnitCost:        unitCost,
		NewOnHand:       stock.OnHand,
	}
}

// StockDecreasedEvent is emitted when units are removed from on-hand stock
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
	NewOnHand   int    `json:"new_on_hand"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(stock *ProductStock, quantity int) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, aggregateTypeProductStock, stock.ID),
		ProductCode:     stock.ProductCode,
		Quantity:        quantity,
		NewOnHand:       stock.OnHand,
	}
}

// ReorderPointUpdatedEvent is emitted when the scheduler writes new figures
type ReorderPointUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductCode  string `json:"product_code"`
	ReorderPoint int    `json:"reorder_point"`
	SuggestedQty int    `json:"suggested_qty"`
}

// NewReorderPointUpdatedEvent creates a new ReorderPointUpdatedEvent
func NewReorderPointUpdatedEvent(stock *ProductStock, reorderPoint, suggestedQty int) *ReorderPointUpdatedEvent {
	return &ReorderPointUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReorderPointUpdated, aggregateTypeProductStock, stock.ID),
		ProductCode:     stock.ProductCode,
		ReorderPoint:    reorderPoint,
		SuggestedQty:    suggestedQty,
	}
}
