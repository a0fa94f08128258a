package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sales order line statuses still eligible for cross-dock allocation.
const (
	salesLineOpen      = "OPEN"
	salesLineFulfilled = "FULFILLED"
	salesLineCancelled = "CANCELLED"
)

// SalesOrderLine is the fulfillment view of a customer order line. The order
// management pipeline owns these rows; the engine only advances FulfilledQty
// when a cross-docked receipt lands.
type SalesOrderLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SalesOrderID uuid.UUID `gorm:"type:uuid;not null;index:idx_sales_line_order_product,priority:1"`
	ProductCode  string    `gorm:"type:varchar(50);not null;index:idx_sales_line_order_product,priority:2"`
	OrderedQty   int       `gorm:"not null"`
	FulfilledQty int       `gorm:"not null;default:0"`
	Status       string    `gorm:"type:varchar(15);not null;default:'OPEN'"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderLine) TableName() string {
	return "sales_order_lines"
}

// GormSalesOrderGateway answers cross-dock routing questions from the sales
// order line table.
type GormSalesOrderGateway struct {
	db *gorm.DB
}

// NewGormSalesOrderGateway creates a new GormSalesOrderGateway
func NewGormSalesOrderGateway(db *gorm.DB) *GormSalesOrderGateway {
	return &GormSalesOrderGateway{db: db}
}

// OutstandingNeed returns how many units of the product the sales order
// still waits for. A missing or cancelled line reports closed.
func (g *GormSalesOrderGateway) OutstandingNeed(ctx context.Context, salesOrderID uuid.UUID, productCode string) (int, bool, error) {
	var line SalesOrderLine
	err := g.db.WithContext(ctx).
		First(&line, "sales_order_id = ? AND product_code = ?", salesOrderID, productCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if line.Status != salesLineOpen {
		return 0, false, nil
	}
	need := line.OrderedQty - line.FulfilledQty
	if need < 0 {
		need = 0
	}
	return need, true, nil
}

// AllocateReceipt assigns received units to the sales order line, marking it
// fulfilled once the ordered quantity is covered.
func (g *GormSalesOrderGateway) AllocateReceipt(ctx context.Context, salesOrderID uuid.UUID, productCode string, quantity int) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line SalesOrderLine
		if err := tx.First(&line, "sales_order_id = ? AND product_code = ?", salesOrderID, productCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if line.Status != salesLineOpen {
			return shared.NewDomainError("SALES_LINE_CLOSED", "Sales order line is no longer open for allocation")
		}

		line.FulfilledQty += quantity
		if line.FulfilledQty >= line.OrderedQty {
			line.Status = salesLineFulfilled
		}
		line.UpdatedAt = time.Now()
		return tx.Save(&line).Error
	})
}
