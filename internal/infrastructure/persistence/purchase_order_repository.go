package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/flexiwear/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID, items included
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by its human-readable number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.db.WithContext(ctx).Preload("Items").Where("status = ?", status)
	query = applyOrderFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.db.WithContext(ctx).Preload("Items").Where("supplier_id = ?", supplierID)
	query = applyOrderFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOpenBySalesOrder finds non-terminal orders with a line linked to the
// given sales order
func (r *GormPurchaseOrderRepository) FindOpenBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Joins("JOIN purchase_order_items ON purchase_order_items.order_id = purchase_orders.id").
		Where("purchase_order_items.sales_order_id = ?", salesOrderID).
		Where("purchase_orders.status NOT IN ?", []procurement.PurchaseOrderStatus{
			procurement.StatusClosed,
			procurement.StatusCancelled,
		}).
		Distinct("purchase_orders.*").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindUnpaidDue finds orders whose payment due date has passed and are not
// yet fully paid
func (r *GormPurchaseOrderRepository) FindUnpaidDue(ctx context.Context) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("payment_due_at IS NOT NULL AND payment_due_at < ?", time.Now()).
		Where("payment_status IN ?", []procurement.PaymentStatus{
			procurement.PaymentPending,
			procurement.PaymentPartialPaid,
		}).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return reconcileItems(tx, order)
	})
}

// SaveWithLock saves with optimistic locking. The update only lands when the
// stored version still matches the version the aggregate was loaded at.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if currentVersion != order.Version {
			return shared.ErrConcurrencyConflict
		}

		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_id":          order.SupplierID,
				"supplier_name":        order.SupplierName,
				"type":                 order.Type,
				"priority":             order.Priority,
				"status":               order.Status,
				"total_amount":         order.TotalAmount,
				"payment_status":       order.PaymentStatus,
				"advance_payment":      order.AdvancePayment,
				"paid_amount":          order.PaidAmount,
				"payment_due_at":       order.PaymentDueAt,
				"expected_delivery_at": order.ExpectedDeliveryAt,
				"actual_delivery_at":   order.ActualDeliveryAt,
				"notes":                order.Notes,
				"approved_by":          order.ApprovedBy,
				"approved_at":          order.ApprovedAt,
				"sent_at":              order.SentAt,
				"confirmed_at":         order.ConfirmedAt,
				"shipped_at":           order.ShippedAt,
				"received_at":          order.ReceivedAt,
				"closed_at":            order.ClosedAt,
				"cancelled_at":         order.CancelledAt,
				"cancel_reason":        order.CancelReason,
				"version":              order.Version,
				"updated_at":           order.UpdatedAt,
			})
		if result.Error != nil {
			order.Version = currentVersion
			return result.Error
		}
		if result.RowsAffected == 0 {
			order.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}
		return reconcileItems(tx, order)
	})
}

// Delete removes a purchase order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id).Error
	})
}

// GenerateOrderNumber produces the next sequential order number, formatted
// as PO-YYYYMM-NNNN with the sequence resetting each month.
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	yearMonth := time.Now().Format("200601")
	prefix := fmt.Sprintf("PO-%s-", yearMonth)

	var lastNumbers []string
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &lastNumbers).Error
	if err != nil {
		return "", err
	}

	sequence := 1
	if len(lastNumbers) > 0 {
		parsed, parseErr := strconv.Atoi(strings.TrimPrefix(lastNumbers[0], prefix))
		if parseErr == nil {
			sequence = parsed + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, sequence), nil
}

// reconcileItems upserts the aggregate's current items and removes rows for
// items no longer present on the order.
func reconcileItems(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	keep := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
		keep = append(keep, order.Items[i].ID)
	}
	query := tx.Where("order_id = ?", order.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&procurement.PurchaseOrderItem{}).Error
}

func applyOrderFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}
