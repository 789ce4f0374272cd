package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/testutil"
)

func newPipelineService(t *testing.T) *PredictionService {
	t.Helper()
	resolver := &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}
	return NewPredictionService(resolver, domain.DefaultSchema(), nil, 0)
}

func TestPredict_ValidRecord(t *testing.T) {
	svc := newPipelineService(t)

	result, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, domain.LabelOnTime, result.Label)
	require.NotNil(t, result.Confidence)
	assert.GreaterOrEqual(t, *result.Confidence, 0.0)
	assert.LessOrEqual(t, *result.Confidence, 1.0)
}

func TestPredict_MissingFieldNamesField(t *testing.T) {
	svc := newPipelineService(t)

	rec := testutil.SampleRecord()
	delete(rec, "Discount_offered")

	_, err := svc.Predict(context.Background(), rec)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Discount_offered", verr.Field)
}

func TestPredict_RatingOutsideDomain(t *testing.T) {
	svc := newPipelineService(t)

	rec := testutil.SampleRecord()
	rec["Customer_rating"] = 99.0

	_, err := svc.Predict(context.Background(), rec)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Customer_rating", verr.Field)
}

func TestPredict_UnseenCategoryIsInferenceError(t *testing.T) {
	svc := newPipelineService(t)

	// "Road" is inside the schema domain but the fixture pipeline was
	// never fitted on it, so the artifact rejects it.
	rec := testutil.SampleRecord()
	rec["Mode_of_Shipment"] = "Road"

	_, err := svc.Predict(context.Background(), rec)
	var ierr *domain.InferenceError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "Mode_of_Shipment", ierr.Field)
}

func TestPredict_ArtifactUnavailable(t *testing.T) {
	wantErr := &domain.ArtifactUnavailableError{Failures: []domain.SourceFailure{
		{Source: "local models/shipping_pipeline.bin", Err: errors.New("artifact file not found")},
	}}
	svc := NewPredictionService(&testutil.StaticResolver{Err: wantErr}, domain.DefaultSchema(), nil, 0)

	_, err := svc.Predict(context.Background(), testutil.SampleRecord())
	var unavailable *domain.ArtifactUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Len(t, unavailable.Failures, 1)

	// Batch calls fail the same way, before any record is attempted.
	_, err = svc.PredictBatch(context.Background(), []domain.FeatureRecord{testutil.SampleRecord()})
	assert.ErrorAs(t, err, &unavailable)
}

func TestPredict_ConfidenceOmittedWithoutProba(t *testing.T) {
	resolver := &testutil.StaticResolver{Predictor: &testutil.BarePredictor{Class: 0}}
	svc := NewPredictionService(resolver, domain.DefaultSchema(), nil, 0)

	result, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, domain.LabelDelayed, result.Label)
	assert.Nil(t, result.Confidence)
}

func TestPredict_ResultCache(t *testing.T) {
	fake := &testutil.FakePredictor{Class: 1, Proba: 0.8}
	svc := NewPredictionService(&testutil.StaticResolver{Predictor: fake}, domain.DefaultSchema(), nil, 8)

	first, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Calls)
	assert.Equal(t, first.Label, second.Label)

	// A different record misses the cache.
	rec := testutil.SampleRecord()
	rec["Customer_care_calls"] = 6.0
	_, err = svc.Predict(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls)
}

func TestPredict_AuditLogAppend(t *testing.T) {
	auditLog := new(testutil.MockPredictionLog)
	auditLog.On("Append", mock.Anything, mock.AnythingOfType("ports.PredictionEntry")).Return(nil)

	resolver := &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}
	svc := NewPredictionService(resolver, domain.DefaultSchema(), auditLog, 0)

	_, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)

	auditLog.AssertNumberOfCalls(t, "Append", 1)
	entry := auditLog.Calls[0].Arguments.Get(1).(ports.PredictionEntry)
	assert.Equal(t, domain.LabelOnTime, entry.Label)
}

func TestPredict_AuditLogFailureDoesNotFailPrediction(t *testing.T) {
	auditLog := new(testutil.MockPredictionLog)
	auditLog.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	resolver := &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}
	svc := NewPredictionService(resolver, domain.DefaultSchema(), auditLog, 0)

	result, err := svc.Predict(context.Background(), testutil.SampleRecord())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestPredictBatch_OrderAndIsolation(t *testing.T) {
	svc := newPipelineService(t)

	bad := testutil.SampleRecord()
	bad["Customer_rating"] = 99.0

	recs := []domain.FeatureRecord{testutil.SampleRecord(), bad, testutil.SampleRecord()}
	items, err := svc.PredictBatch(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, items, len(recs))

	assert.NotNil(t, items[0].Result)
	assert.NoError(t, items[0].Err)

	var verr *domain.ValidationError
	require.ErrorAs(t, items[1].Err, &verr)
	assert.Equal(t, "Customer_rating", verr.Field)
	assert.Nil(t, items[1].Result)

	assert.NotNil(t, items[2].Result)
	assert.Equal(t, items[0].Result.Label, items[2].Result.Label)
}

func TestPredictBatch_Empty(t *testing.T) {
	svc := newPipelineService(t)

	_, err := svc.PredictBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestPredictBatch_ManyRecordsPreserveOrder(t *testing.T) {
	svc := newPipelineService(t)

	const n = 25
	recs := make([]domain.FeatureRecord, n)
	for i := range recs {
		rec := testutil.SampleRecord()
		rec["Cost_of_the_Product"] = 180.0 + float64(i)
		recs[i] = rec
	}

	items, err := svc.PredictBatch(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, items, n)
	for i, item := range items {
		require.NoError(t, item.Err, fmt.Sprintf("record %d", i))
		require.NotNil(t, item.Result)
	}
}
