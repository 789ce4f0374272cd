package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	ports "shipment-prediction-service/internal/core/ports/output"
)

// StaticResolver hands out a fixed predictor or a fixed failure.
type StaticResolver struct {
	Predictor ports.Predictor
	Err       error
}

func (r *StaticResolver) Get(_ context.Context) (ports.Predictor, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Predictor, nil
}

// FakePredictor answers a fixed class with a fixed vote share and counts
// calls. It implements ProbabilityPredictor.
type FakePredictor struct {
	Class int
	Proba float64
	Err   error
	Calls int
}

func (f *FakePredictor) Predict(_ map[string]any) (int, error) {
	f.Calls++
	return f.Class, f.Err
}

func (f *FakePredictor) PredictProba(_ map[string]any) (int, float64, error) {
	f.Calls++
	return f.Class, f.Proba, f.Err
}

// BarePredictor has no probability operation, so the service must omit
// confidence.
type BarePredictor struct {
	Class int
}

func (f *BarePredictor) Predict(_ map[string]any) (int, error) {
	return f.Class, nil
}

// MockPredictionLog is a mock of PredictionLog.
type MockPredictionLog struct {
	mock.Mock
}

func (m *MockPredictionLog) Append(ctx context.Context, entry ports.PredictionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPredictionLog) Recent(ctx context.Context, limit int) ([]ports.PredictionEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.PredictionEntry), args.Error(1)
}
