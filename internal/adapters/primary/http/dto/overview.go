package dto

import (
	"errors"

	"shipment-prediction-service/internal/core/domain"
	"shipment-prediction-service/internal/core/services"
	"shipment-prediction-service/internal/dataset"
)

type OverviewResponse struct {
	TotalShipments int     `json:"total_shipments"`
	AverageCost    float64 `json:"average_cost"`
	OnTimeRate     float64 `json:"on_time_rate"`
}

func ToOverviewResponse(o services.Overview) OverviewResponse {
	return OverviewResponse{
		TotalShipments: o.TotalShipments,
		AverageCost:    o.AverageCost,
		OnTimeRate:     o.OnTimeRate,
	}
}

type FeatureRangeResponse struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

type SchemaFieldResponse struct {
	Name    string                `json:"name"`
	Kind    string                `json:"kind"`
	Domain  []string              `json:"domain,omitempty"`
	Min     *float64              `json:"min,omitempty"`
	Max     *float64              `json:"max,omitempty"`
	Integer bool                  `json:"integer,omitempty"`
	Range   *FeatureRangeResponse `json:"range,omitempty"`
}

type SchemaResponse struct {
	Fields []SchemaFieldResponse `json:"fields"`
}

// ToSchemaResponse merges the static field schema with dataset-observed
// ranges (nil when no reference dataset is loaded).
func ToSchemaResponse(schema domain.FeatureSchema, ranges map[string]dataset.Range) SchemaResponse {
	out := SchemaResponse{Fields: make([]SchemaFieldResponse, len(schema.Fields))}
	for i, f := range schema.Fields {
		field := SchemaFieldResponse{
			Name:    f.Name,
			Kind:    string(f.Kind),
			Domain:  f.Domain,
			Min:     f.Min,
			Max:     f.Max,
			Integer: f.Integer,
		}
		if r, ok := ranges[f.Name]; ok {
			field.Range = &FeatureRangeResponse{Min: r.Min, Max: r.Max, Median: r.Median}
		}
		out.Fields[i] = field
	}
	return out
}

// errorField extracts the offending field name from a typed domain error.
func errorField(err error) string {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return validation.Field
	}
	var inference *domain.InferenceError
	if errors.As(err, &inference) {
		return inference.Field
	}
	return ""
}
