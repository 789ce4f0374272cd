package dto

import (
	"time"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/core/services"
)

// PredictRequest carries one feature record keyed by dataset column name.
// Fields outside the feature schema are dropped silently.
type PredictRequest map[string]any

type BatchPredictRequest struct {
	Records []map[string]any `json:"records" binding:"required"`
}

type PredictionResponse struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func ToPredictionResponse(r *domain.PredictionResult) PredictionResponse {
	return PredictionResponse{
		Label:      string(r.Label),
		Confidence: r.Confidence,
	}
}

// BatchItemResponse is the per-record outcome. Exactly one of result and
// error is present; index is the position in the submitted batch.
type BatchItemResponse struct {
	Index  int                 `json:"index"`
	Result *PredictionResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
	Field  string              `json:"field,omitempty"`
}

type BatchPredictResponse struct {
	Items []BatchItemResponse `json:"items"`
	Total int                 `json:"total"`
}

func ToBatchPredictResponse(items []services.BatchItem) BatchPredictResponse {
	out := BatchPredictResponse{Items: make([]BatchItemResponse, len(items)), Total: len(items)}
	for i, item := range items {
		resp := BatchItemResponse{Index: i}
		if item.Err != nil {
			resp.Error = item.Err.Error()
			resp.Field = errorField(item.Err)
		} else {
			r := ToPredictionResponse(item.Result)
			resp.Result = &r
		}
		out.Items[i] = resp
	}
	return out
}

type PredictionLogItemResponse struct {
	ID         string         `json:"id"`
	CreatedAt  string         `json:"created_at"`
	Input      map[string]any `json:"input"`
	Label      string         `json:"label"`
	Confidence *float64       `json:"confidence,omitempty"`
}

func ToPredictionLogItemResponse(e ports.PredictionEntry) PredictionLogItemResponse {
	return PredictionLogItemResponse{
		ID:         e.ID.String(),
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		Input:      e.Input,
		Label:      string(e.Label),
		Confidence: e.Confidence,
	}
}

type ListPredictionLogResponse struct {
	Items []PredictionLogItemResponse `json:"items"`
	Total int                         `json:"total"`
}
