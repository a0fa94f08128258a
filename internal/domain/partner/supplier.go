package partner

import (
	"strings"
	"time"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier is the supplier directory entry read by the replenishment engine.
// Supplier records are maintained by the admin CRUD surface; the engine only
// consumes the lead time and active flag.
type Supplier struct {
	shared.BaseAggregateRoot
	Code         string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(200);not null"`
	Status       SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LeadTimeDays int            `gorm:"not null;default:14;check:lead_time_days > 0"`
	ContactName  string         `gorm:"type:varchar(100)"`
	Email        string         `gorm:"type:varchar(200);index"`
	Phone        string         `gorm:"type:varchar(50)"`
	CreditDays   int            `gorm:"not null;default:0"` // payment terms: days until payment due
	Notes        string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier directory entry
func NewSupplier(code, name string, leadTimeDays int) (*Supplier, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_CODE", "Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if leadTimeDays <= 0 {
		return nil, shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be positive")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
		LeadTimeDays:      leadTimeDays,
	}, nil
}

// IsActive returns true if the supplier can be ordered from
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
}

// PaymentDueDate returns when payment for an order confirmed at the given
// time falls due, based on the supplier's credit terms
func (s *Supplier) PaymentDueDate(confirmedAt time.Time) time.Time {
	return confirmedAt.AddDate(0, 0, s.CreditDays)
}
