package inventory

import (
	"fmt"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/flexiwear/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStock is the per-product inventory record and the aggregate root
// for stock operations. It is keyed by product code and carries the latest
// replenishment figures alongside the physical on-hand count.
type ProductStock struct {
	shared.BaseAggregateRoot
	ProductCode      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OnHand           int             `gorm:"not null;default:0;check:on_hand >= 0"`
	ReorderPoint     *int            // nil until the first scheduler run
	SuggestedOrderQty int            `gorm:"not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // moving weighted average
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeadTimeOverride *int            // overrides the supplier default, in days
	Active           bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stocks"
}

// NewProductStock creates a new inventory record for a product
func NewProductStock(productCode, productName string, supplierID uuid.UUID) (*ProductStock, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	return &ProductStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       productCode,
		ProductName:       productName,
		OnHand:            0,
		SuggestedOrderQty: 0,
		UnitCost:          decimal.Zero,
		SupplierID:        supplierID,
		Active:            true,
	}, nil
}

// IncreaseStock adds received units and recalculates the unit cost using
// the moving weighted average:
// newCost = (oldQty*oldCost + qty*cost) / (oldQty + qty)
func (p *ProductStock) IncreaseStock(quantity int, unitCost valueobject.Money) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldQty := decimal.NewFromInt(int64(p.OnHand))
	qty := decimal.NewFromInt(int64(quantity))
	if p.OnHand == 0 {
		p.UnitCost = unitCost.Amount()
	} else {
		totalValue := oldQty.Mul(p.UnitCost).Add(qty.Mul(unitCost.Amount()))
		p.UnitCost = totalValue.Div(oldQty.Add(qty)).Round(4)
	}

	p.OnHand += quantity
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewStockIncreasedEvent(p, quantity, unitCost.Amount()))

	return nil
}

// DecreaseStock removes units from on-hand stock. Writes that would drive
// the count below zero are rejected.
func (p *ProductStock) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.OnHand {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot remove %d units, only %d on hand for %s", quantity, p.OnHand, p.ProductCode))
	}

	p.OnHand -= quantity
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewStockDecreasedEvent(p, quantity))

	return nil
}

// UpdateReplenishmentFigures records the latest computed reorder point and
// suggested order quantity. Called by the scheduler after each forecast run.
func (p *ProductStock) UpdateReplenishmentFigures(reorderPoint, suggestedQty int) error {
	if reorderPoint < 0 || suggestedQty < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Reorder point and suggested quantity cannot be negative")
	}

	rop := reorderPoint
	p.ReorderPoint = &rop
	p.SuggestedOrderQty = suggestedQty
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewReorderPointUpdatedEvent(p, reorderPoint, suggestedQty))

	return nil
}

// SetLeadTimeOverride sets a per-product lead time in days, overriding the
// supplier default. A nil value clears the override.
func (p *ProductStock) SetLeadTimeOverride(days *int) error {
	if days != nil && *days < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Lead time override cannot be negative")
	}
	p.LeadTimeOverride = days
	p.UpdatedAt = time.Now()
	return nil
}

// Discontinue deactivates the product so the scheduler skips it
func (p *ProductStock) Discontinue() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// IsBelowReorderPoint returns true once a reorder point has been computed
// and the on-hand count has fallen to or below it
func (p *ProductStock) IsBelowReorderPoint() bool {
	return p.ReorderPoint != nil && p.OnHand <= *p.ReorderPoint
}

// IsOutOfStock returns true when nothing is on hand
func (p *ProductStock) IsOutOfStock() bool {
	return p.OnHand == 0
}

// EffectiveLeadTimeDays resolves the lead time: the product override wins
// over the supplier default.
func (p *ProductStock) EffectiveLeadTimeDays(supplierDefault int) int {
	if p.LeadTimeOverride != nil {
		return *p.LeadTimeOverride
	}
	return supplierDefault
}

// UnitCostMoney returns the unit cost as a Money value object
func (p *ProductStock) UnitCostMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnitCost)
}
