package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	replenishmentapp "github.com/flexiwear/backend/internal/application/replenishment"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	// Simulate is pure, it never touches the repositories
	svc := replenishmentapp.NewForecastService(
		nil, nil, nil, nil, nil,
		replenishment.NewWindowEstimator(nil),
		nil,
		replenishment.DefaultPolicy(),
		0,
		nil,
	)
	h := NewReplenishmentHandler(svc, nil)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestSimulateEndpoint(t *testing.T) {
	engine := newSimulateRouter(t)

	body, _ := json.Marshal(gin.H{
		"daily_mean_demand": 10.0,
		"daily_std_dev":     2.0,
		"lead_time_days":    7,
		"on_hand":           20,
	})
	req := httptest.NewRequest("POST", "/api/v1/replenishment/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                              `json:"success"`
		Data    replenishmentapp.SimulateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 95, resp.Data.ServiceLevel)
	assert.Equal(t, 79, resp.Data.ReorderPoint)
	assert.Equal(t, 9, resp.Data.SafetyStock)
	assert.Equal(t, 138, resp.Data.SuggestedQty)
	require.NotNil(t, resp.Data.DaysOfCover)
	assert.InDelta(t, 2.0, *resp.Data.DaysOfCover, 0.001)
}

func TestSimulateEndpointOverridesServiceLevel(t *testing.T) {
	engine := newSimulateRouter(t)

	body, _ := json.Marshal(gin.H{
		"daily_mean_demand": 10.0,
		"daily_std_dev":     2.0,
		"lead_time_days":    7,
		"on_hand":           20,
		"service_level":     99,
	})
	req := httptest.NewRequest("POST", "/api/v1/replenishment/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data replenishmentapp.SimulateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 99, resp.Data.ServiceLevel)
	assert.Equal(t, 83, resp.Data.ReorderPoint)
}

func TestSimulateEndpointRejectsUnsupportedServiceLevel(t *testing.T) {
	engine := newSimulateRouter(t)

	body, _ := json.Marshal(gin.H{
		"daily_mean_demand": 10.0,
		"daily_std_dev":     2.0,
		"lead_time_days":    7,
		"on_hand":           20,
		"service_level":     85,
	})
	req := httptest.NewRequest("POST", "/api/v1/replenishment/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestListAlertsRejectsMalformedDate(t *testing.T) {
	engine := newSimulateRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/replenishment/alerts?date=09-2026", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetForecastRejectsMalformedDate(t *testing.T) {
	engine := newSimulateRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/replenishment/forecasts/CG-SLV-M?date=not-a-date", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalibrateRejectsMalformedMonth(t *testing.T) {
	engine := newSimulateRouter(t)

	body, _ := json.Marshal(gin.H{"month": "August 2026"})
	req := httptest.NewRequest("POST", "/api/v1/replenishment/accuracy/calibrate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
