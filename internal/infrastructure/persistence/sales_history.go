package persistence

import (
	"context"
	"time"

	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesRecord is a row of the fulfilled-sales ledger the demand estimator
// reads from. It is a read model, not an aggregate: rows are appended by the
// order pipeline and never mutated here.
type SalesRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductCode string    `gorm:"type:varchar(50);not null;index:idx_sales_product_day,priority:1"`
	SoldOn      time.Time `gorm:"type:date;not null;index:idx_sales_product_day,priority:2"`
	Units       int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesRecord) TableName() string {
	return "sales_records"
}

// GormSalesHistory implements the sales data source over the sales ledger
type GormSalesHistory struct {
	db *gorm.DB
}

// NewGormSalesHistory creates a new GormSalesHistory
func NewGormSalesHistory(db *gorm.DB) *GormSalesHistory {
	return &GormSalesHistory{db: db}
}

// GetDailySales returns per-day unit totals for the product over [from, to].
// Days without sales are absent from the result.
func (h *GormSalesHistory) GetDailySales(ctx context.Context, productCode string, from, to time.Time) ([]replenishment.DailySale, error) {
	type row struct {
		SoldOn time.Time
		Units  int
	}
	var rows []row
	if err := h.db.WithContext(ctx).
		Model(&SalesRecord{}).
		Select("sold_on, SUM(units) AS units").
		Where("product_code = ? AND sold_on >= ? AND sold_on <= ?", productCode, dateOnly(from), dateOnly(to)).
		Group("sold_on").
		Order("sold_on ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sales := make([]replenishment.DailySale, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, replenishment.DailySale{Date: dateOnly(r.SoldOn), Units: r.Units})
	}
	return sales, nil
}
