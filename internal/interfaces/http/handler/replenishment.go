package handler

import (
	"errors"
	"io"
	"time"

	replenishmentapp "github.com/flexiwear/backend/internal/application/replenishment"
	"github.com/flexiwear/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"
const monthLayout = "2006-01"

// ReplenishmentHandler handles forecast and reorder-related API endpoints
type ReplenishmentHandler struct {
	BaseHandler
	forecastService *replenishmentapp.ForecastService
	accuracyService *replenishmentapp.AccuracyService
}

// NewReplenishmentHandler creates a new ReplenishmentHandler
func NewReplenishmentHandler(
	forecastService *replenishmentapp.ForecastService,
	accuracyService *replenishmentapp.AccuracyService,
) *ReplenishmentHandler {
	return &ReplenishmentHandler{
		forecastService: forecastService,
		accuracyService: accuracyService,
	}
}

// RegisterRoutes wires replenishment endpoints onto the given group
func (h *ReplenishmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/replenishment/simulate", h.Simulate)
	rg.POST("/replenishment/run", h.Run)
	rg.POST("/replenishment/products/:product_code/run", h.RunForProduct)
	rg.GET("/replenishment/forecasts/:product_code", h.GetForecast)
	rg.GET("/replenishment/alerts", h.ListAlerts)
	rg.GET("/replenishment/accuracy/:product_code", h.GetAccuracy)
	rg.POST("/replenishment/accuracy/calibrate", h.Calibrate)
}

// Simulate computes reorder figures for hypothetical inputs without
// touching stored state
func (h *ReplenishmentHandler) Simulate(c *gin.Context) {
	var req replenishmentapp.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.forecastService.Simulate(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RunRequest optionally pins the as-of date of a manual forecast run
type RunRequest struct {
	AsOf string `json:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

// Run triggers a forecast pass over the whole active catalog
func (h *ReplenishmentHandler) Run(c *gin.Context) {
	var req RunRequest
	// Body is optional, an empty body means run as of today
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	summary, err := h.forecastService.RunAll(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RunForProduct triggers a forecast pass for a single product
func (h *ReplenishmentHandler) RunForProduct(c *gin.Context) {
	productCode := c.Param("product_code")
	if productCode == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	result, err := h.forecastService.RunForProduct(c.Request.Context(), productCode, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetForecast retrieves the stored forecast of a product for a given date
// (today when the date query parameter is absent)
func (h *ReplenishmentHandler) GetForecast(c *gin.Context) {
	productCode := c.Param("product_code")
	if productCode == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	forecast, err := h.forecastService.GetForecast(c.Request.Context(), productCode, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, forecast)
}

// ListAlerts retrieves the replenishment alerts raised on a given date
// (today when the date query parameter is absent)
func (h *ReplenishmentHandler) ListAlerts(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	alerts, err := h.forecastService.ListAlerts(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// GetAccuracy retrieves the latest monthly forecast accuracy of a product
func (h *ReplenishmentHandler) GetAccuracy(c *gin.Context) {
	productCode := c.Param("product_code")
	if productCode == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	accuracy, err := h.accuracyService.GetLatest(c.Request.Context(), productCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accuracy)
}

// CalibrateRequest identifies the month (and optionally a single product)
// to score forecasts against realized demand
type CalibrateRequest struct {
	Month       string `json:"month" binding:"required,datetime=2006-01"`
	ProductCode string `json:"product_code"`
}

// CalibrateResult reports the outcome of a calibration request
type CalibrateResult struct {
	Month      string `json:"month"`
	Calibrated int    `json:"calibrated"`
}

// Calibrate scores last month's forecasts against realized demand
func (h *ReplenishmentHandler) Calibrate(c *gin.Context) {
	var req CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	month, err := time.Parse(monthLayout, req.Month)
	if err != nil {
		h.BadRequest(c, "Invalid month, expected YYYY-MM")
		return
	}

	if req.ProductCode != "" {
		accuracy, err := h.accuracyService.CalibrateMonth(c.Request.Context(), req.ProductCode, month)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, accuracy)
		return
	}

	count, err := h.accuracyService.CalibrateAll(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CalibrateResult{Month: req.Month, Calibrated: count})
}
