package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSalesTestDB creates an in-memory SQLite database for testing
func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&SalesRecord{}, &SalesOrderLine{})
	require.NoError(t, err)

	return db
}

func seedSale(t *testing.T, db *gorm.DB, productCode string, soldOn time.Time, units int) {
	t.Helper()

	record := SalesRecord{
		ID:          uuid.New(),
		ProductCode: productCode,
		SoldOn:      soldOn,
		Units:       units,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&record).Error)
}

func TestGormSalesHistory_GetDailySales(t *testing.T) {
	db := setupSalesTestDB(t)
	history := NewGormSalesHistory(db)
	ctx := context.Background()

	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	seedSale(t, db, "CG-SLV-M", day, 4)
	seedSale(t, db, "CG-SLV-M", day, 6)
	seedSale(t, db, "CG-SLV-M", day.AddDate(0, 0, 2), 3)
	seedSale(t, db, "CG-TGT-S", day, 99)
	seedSale(t, db, "CG-SLV-M", day.AddDate(0, 0, 30), 1)

	sales, err := history.GetDailySales(ctx, "CG-SLV-M", day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.True(t, day.Equal(sales[0].Date))
	assert.Equal(t, 10, sales[0].Units)
	assert.Equal(t, 3, sales[1].Units)
}

func TestGormSalesOrderGateway(t *testing.T) {
	ctx := context.Background()

	seedLine := func(t *testing.T, db *gorm.DB, salesOrderID uuid.UUID, ordered, fulfilled int, status string) {
		t.Helper()
		line := SalesOrderLine{
			ID:           uuid.New(),
			SalesOrderID: salesOrderID,
			ProductCode:  "CG-SLV-M",
			OrderedQty:   ordered,
			FulfilledQty: fulfilled,
			Status:       status,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, db.Create(&line).Error)
	}

	t.Run("reports outstanding need for an open line", func(t *testing.T) {
		db := setupSalesTestDB(t)
		gateway := NewGormSalesOrderGateway(db)
		salesOrderID := uuid.New()
		seedLine(t, db, salesOrderID, 25, 5, salesLineOpen)

		need, open, err := gateway.OutstandingNeed(ctx, salesOrderID, "CG-SLV-M")
		require.NoError(t, err)
		assert.True(t, open)
		assert.Equal(t, 20, need)
	})

	t.Run("missing or cancelled lines report closed", func(t *testing.T) {
		db := setupSalesTestDB(t)
		gateway := NewGormSalesOrderGateway(db)

		_, open, err := gateway.OutstandingNeed(ctx, uuid.New(), "CG-SLV-M")
		require.NoError(t, err)
		assert.False(t, open)

		salesOrderID := uuid.New()
		seedLine(t, db, salesOrderID, 25, 0, salesLineCancelled)

		_, open, err = gateway.OutstandingNeed(ctx, salesOrderID, "CG-SLV-M")
		require.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("allocation fulfills the line once covered", func(t *testing.T) {
		db := setupSalesTestDB(t)
		gateway := NewGormSalesOrderGateway(db)
		salesOrderID := uuid.New()
		seedLine(t, db, salesOrderID, 25, 5, salesLineOpen)

		require.NoError(t, gateway.AllocateReceipt(ctx, salesOrderID, "CG-SLV-M", 20))

		need, open, err := gateway.OutstandingNeed(ctx, salesOrderID, "CG-SLV-M")
		require.NoError(t, err)
		assert.False(t, open)
		assert.Zero(t, need)

		var line SalesOrderLine
		require.NoError(t, db.First(&line, "sales_order_id = ?", salesOrderID).Error)
		assert.Equal(t, salesLineFulfilled, line.Status)
		assert.Equal(t, 25, line.FulfilledQty)
	})

	t.Run("allocation to a closed line fails", func(t *testing.T) {
		db := setupSalesTestDB(t)
		gateway := NewGormSalesOrderGateway(db)
		salesOrderID := uuid.New()
		seedLine(t, db, salesOrderID, 25, 25, salesLineFulfilled)

		err := gateway.AllocateReceipt(ctx, salesOrderID, "CG-SLV-M", 5)
		assert.Error(t, err)
	})
}
