package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), method, target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func findAccessLog(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()

	logs := recorded.All()
	for i := range logs {
		if logs[i].Message == "http request" {
			return &logs[i]
		}
	}
	return nil
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"2xx logs at info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs at warn", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"5xx logs at error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, recorded := serveLogged(t, zapcore.DebugLevel, func(r *gin.Engine) {
				r.GET("/probe", func(c *gin.Context) {
					c.JSON(tt.status, gin.H{})
				})
			}, http.MethodGet, "/probe")

			assert.Equal(t, tt.status, w.Code)
			entry := findAccessLog(t, recorded)
			require.NotNil(t, entry, "access log entry should exist")
			assert.Equal(t, tt.wantLevel, entry.Level)
		})
	}
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-test-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	entry := findAccessLog(t, recorded)
	require.NotNil(t, entry)

	found := false
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-test-123", field.String)
		}
	}
	assert.True(t, found, "request_id should be in log fields")
}

func TestGinMiddleware_FieldSet(t *testing.T) {
	_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/replenishment/alerts", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}, http.MethodGet, "/replenishment/alerts?date=2026-08-01")

	entry := findAccessLog(t, recorded)
	require.NotNil(t, entry)

	fields := make(map[string]zapcore.Field)
	for _, field := range entry.Context {
		fields[field.Key] = field
	}

	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "method")
	assert.Contains(t, fields, "path")
	assert.Contains(t, fields, "route")
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "date=2026-08-01")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	var fromHandler *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/probe", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, fromHandler)
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	var fromHandler *zap.Logger
	router := gin.New()
	router.GET("/probe", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	// Falls back to a usable no-op logger
	require.NotNil(t, fromHandler)
	assert.NotPanics(t, func() {
		fromHandler.Info("probe")
	})
}
