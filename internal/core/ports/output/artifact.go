package ports

import "context"

// Predictor is the operation surface the prediction service needs from a
// loaded artifact.
type Predictor interface {
	Predict(rec map[string]any) (int, error)
}

// ProbabilityPredictor is implemented by artifacts that can also estimate
// class probability. The service omits confidence when the loaded artifact
// does not implement it.
type ProbabilityPredictor interface {
	Predictor
	PredictProba(rec map[string]any) (int, float64, error)
}

// ArtifactResolver yields the loaded pipeline artifact. Implementations
// resolve it at most once per process and return the same instance (or the
// same failure) to every caller.
type ArtifactResolver interface {
	Get(ctx context.Context) (Predictor, error)
}
