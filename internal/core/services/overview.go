package services

import (
	"shipment-prediction-service/internal/core/domain"
	"shipment-prediction-service/internal/dataset"
)

// Overview is the dashboard summary of the reference dataset.
type Overview struct {
	TotalShipments int
	AverageCost    float64
	OnTimeRate     float64
}

// OverviewService derives dashboard statistics and form bounds from the
// reference dataset packaged with the deployment.
type OverviewService struct {
	ds     *dataset.Dataset
	schema domain.FeatureSchema
}

func NewOverviewService(ds *dataset.Dataset, schema domain.FeatureSchema) *OverviewService {
	return &OverviewService{ds: ds, schema: schema}
}

// Overview computes the headline dataset stats.
func (s *OverviewService) Overview() (Overview, error) {
	avgCost, err := s.ds.Mean("Cost_of_the_Product")
	if err != nil {
		return Overview{}, err
	}
	onTime, err := s.ds.Mean(dataset.TargetColumn)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		TotalShipments: s.ds.Len(),
		AverageCost:    avgCost,
		OnTimeRate:     onTime,
	}, nil
}

// FeatureRanges returns the observed min/max/median of every numeric
// schema field, the bounds a client form offers for its sliders.
func (s *OverviewService) FeatureRanges() (map[string]dataset.Range, error) {
	ranges := make(map[string]dataset.Range)
	for _, name := range s.schema.NumericFieldNames() {
		r, err := s.ds.NumericRange(name)
		if err != nil {
			return nil, err
		}
		ranges[name] = r
	}
	return ranges, nil
}
