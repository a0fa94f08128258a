package replenishment

import (
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// AlertUrgency ranks how pressing a replenishment alert is
type AlertUrgency string

const (
	UrgencyCritical AlertUrgency = "CRITICAL" // product is out of stock
	UrgencyUrgent   AlertUrgency = "URGENT"   // on-hand at or below reorder point
	UrgencyWarning  AlertUrgency = "WARNING"  // coverage shorter than lead time
)

// ReplenishmentAlert flags a product whose stock position requires action.
// Alerts are observational: they are published to the notification sink and
// persisted for same-day deduplication, but never mutate PO state. Drafting
// a PO from an alert is a separate, explicitly invoked action.
type ReplenishmentAlert struct {
	shared.BaseAggregateRoot
	ProductCode  string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_alert_product_date,priority:1"`
	ForecastDate time.Time    `gorm:"type:date;not null;uniqueIndex:idx_alert_product_date,priority:2"`
	Urgency      AlertUrgency `gorm:"type:varchar(10);not null"`
	OnHand       int          `gorm:"not null"`
	ReorderPoint int          `gorm:"not null"`
	SuggestedQty int          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReplenishmentAlert) TableName() string {
	return "replenishment_alerts"
}

// NewReplenishmentAlert creates an alert row for a forecast date
func NewReplenishmentAlert(productCode string, forecastDate time.Time, urgency AlertUrgency, onHand, reorderPoint, suggestedQty int) (*ReplenishmentAlert, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	return &ReplenishmentAlert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       productCode,
		ForecastDate:      forecastDate.Truncate(24 * time.Hour),
		Urgency:           urgency,
		OnHand:            onHand,
		ReorderPoint:      reorderPoint,
		SuggestedQty:      suggestedQty,
	}, nil
}

// ClassifyUrgency decides whether the stock position warrants an alert and
// at which urgency. Returns false when no alert is needed.
func ClassifyUrgency(onHand, reorderPoint int, daysOfCover float64, leadTimeDays int) (AlertUrgency, bool) {
	switch {
	case onHand == 0:
		return UrgencyCritical, true
	case onHand <= reorderPoint:
		return UrgencyUrgent, true
	case daysOfCover < float64(leadTimeDays):
		return UrgencyWarning, true
	}
	return "", false
}
