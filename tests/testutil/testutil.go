// Package testutil provides common test utilities for the replenishment
// engine backend: an in-memory database constructor, an event recorder,
// and helpers for driving the HTTP surface in tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// dbSeq numbers the in-memory databases so each NewSQLiteDB call gets its own.
var dbSeq atomic.Int64

// NewSQLiteDB opens an in-memory SQLite database and migrates the given
// models. Each call returns an isolated database. The DSN uses a uniquely
// named shared-cache memory database so every pooled connection sees the
// same data; with a plain ":memory:" DSN each connection would open its
// own empty database.
func NewSQLiteDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err, "Failed to migrate test models")
	}
	return db
}

// UUIDFromSeed derives a reproducible UUID from a seed string, for
// fixtures that need stable IDs across runs.
func UUIDFromSeed(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}
