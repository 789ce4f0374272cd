package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shipment-prediction-service/internal/core/domain"
)

// PredictionEntry is one audited prediction.
type PredictionEntry struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Input      domain.FeatureRecord
	Label      domain.Label
	Confidence *float64
}

// PredictionLog records served predictions for later drift analysis.
type PredictionLog interface {
	Append(ctx context.Context, entry PredictionEntry) error
	Recent(ctx context.Context, limit int) ([]PredictionEntry, error)
}
