package replenishment

import (
	"time"

	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/google/uuid"
)

// ForecastResponse represents a forecast row in API responses
type ForecastResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductCode       string    `json:"product_code"`
	ForecastDate      time.Time `json:"forecast_date"`
	DailyMeanDemand   float64   `json:"daily_mean_demand"`
	DailyStdDev       float64   `json:"daily_std_dev"`
	SampleSize        int       `json:"sample_size"`
	LeadTimeDays      int       `json:"lead_time_days"`
	PredictedDemand   int       `json:"predicted_demand"`
	DaysUntilStockout *float64  `json:"days_until_stockout,omitempty"`
	ReorderPoint      int       `json:"reorder_point"`
	SuggestedQty      int       `json:"suggested_qty"`
	Confidence        string    `json:"confidence"`
	ChurnRisk         float64   `json:"churn_risk"`
}

// AlertResponse represents a replenishment alert in API responses
type AlertResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductCode  string    `json:"product_code"`
	ForecastDate time.Time `json:"forecast_date"`
	Urgency      string    `json:"urgency"`
	OnHand       int       `json:"on_hand"`
	ReorderPoint int       `json:"reorder_point"`
	SuggestedQty int       `json:"suggested_qty"`
}

// RunSummary reports the outcome of a scheduler run over the catalog
type RunSummary struct {
	RunDate   time.Time `json:"run_date"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Alerts    int       `json:"alerts"`
}

// SimulateRequest asks what the reorder figures would be for hypothetical
// inputs, without touching stored state
type SimulateRequest struct {
	DailyMeanDemand float64 `json:"daily_mean_demand" binding:"min=0"`
	DailyStdDev     float64 `json:"daily_std_dev" binding:"min=0"`
	LeadTimeDays    int     `json:"lead_time_days" binding:"min=0"`
	OnHand          int     `json:"on_hand" binding:"min=0"`
	ServiceLevel    int     `json:"service_level" binding:"omitempty,oneof=90 95 99"`
}

// SimulateResponse is the outcome of a what-if computation
type SimulateResponse struct {
	ServiceLevel int      `json:"service_level"`
	ReorderPoint int      `json:"reorder_point"`
	SafetyStock  int      `json:"safety_stock"`
	SuggestedQty int      `json:"suggested_qty"`
	DaysOfCover  *float64 `json:"days_of_cover,omitempty"`
}

// AccuracyResponse represents a monthly accuracy record in API responses
type AccuracyResponse struct {
	ProductCode string    `json:"product_code"`
	Month       time.Time `json:"month"`
	MAE         float64   `json:"mae"`
	MAPE        float64   `json:"mape"`
	SampleCount int       `json:"sample_count"`
	Downgraded  bool      `json:"downgraded"`
}

// ToForecastResponse converts a domain forecast to a response DTO
func ToForecastResponse(f *replenishment.InventoryForecast) ForecastResponse {
	return ForecastResponse{
		ID:                f.ID,
		ProductCode:       f.ProductCode,
		ForecastDate:      f.ForecastDate,
		DailyMeanDemand:   f.DailyMeanDemand,
		DailyStdDev:       f.DailyStdDev,
		SampleSize:        f.SampleSize,
		LeadTimeDays:      f.LeadTimeDays,
		PredictedDemand:   f.PredictedDemand,
		DaysUntilStockout: f.DaysUntilStockout,
		ReorderPoint:      f.ReorderPoint,
		SuggestedQty:      f.SuggestedQty,
		Confidence:        string(f.Confidence),
		ChurnRisk:         f.ChurnRisk,
	}
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(a *replenishment.ReplenishmentAlert) AlertResponse {
	return AlertResponse{
		ID:           a.ID,
		ProductCode:  a.ProductCode,
		ForecastDate: a.ForecastDate,
		Urgency:      string(a.Urgency),
		OnHand:       a.OnHand,
		ReorderPoint: a.ReorderPoint,
		SuggestedQty: a.SuggestedQty,
	}
}

// ToAlertResponses converts a slice of domain alerts
func ToAlertResponses(alerts []replenishment.ReplenishmentAlert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[i]))
	}
	return responses
}
