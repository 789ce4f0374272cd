package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/pipeline"
)

// PredictionService answers shipment delay predictions over the immutably
// loaded pipeline artifact. It is stateless per request; the only shared
// state is the artifact itself and a bounded result cache.
type PredictionService struct {
	resolver ports.ArtifactResolver
	schema   domain.FeatureSchema
	auditLog ports.PredictionLog
	cache    *lru.Cache[string, domain.PredictionResult]
}

// NewPredictionService wires the service. auditLog may be nil to disable
// the audit trail; cacheSize <= 0 disables result memoization.
func NewPredictionService(resolver ports.ArtifactResolver, schema domain.FeatureSchema, auditLog ports.PredictionLog, cacheSize int) *PredictionService {
	var cache *lru.Cache[string, domain.PredictionResult]
	if cacheSize > 0 {
		cache, _ = lru.New[string, domain.PredictionResult](cacheSize)
	}
	return &PredictionService{
		resolver: resolver,
		schema:   schema,
		auditLog: auditLog,
		cache:    cache,
	}
}

// Schema returns the feature schema the service validates against.
func (s *PredictionService) Schema() domain.FeatureSchema { return s.schema }

// Predict validates one record and runs it through the artifact.
// A missing artifact is surfaced as *domain.ArtifactUnavailableError, bad
// input as *domain.ValidationError, and an artifact-level rejection as
// *domain.InferenceError. It never substitutes a default prediction.
func (s *PredictionService) Predict(ctx context.Context, rec domain.FeatureRecord) (*domain.PredictionResult, error) {
	predictor, err := s.resolver.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.schema.Validate(rec); err != nil {
		return nil, err
	}

	// Memoized results return early and are not re-appended to the
	// audit log; the log records distinct inferences, not submissions.
	key := s.cacheKey(rec)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			result := cached
			return &result, nil
		}
	}

	result, err := s.infer(predictor, rec)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(key, *result)
	}
	s.audit(ctx, rec, result)
	return result, nil
}

// BatchItem is the outcome for one record of a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Result *domain.PredictionResult
	Err    error
}

// PredictBatch runs every record through Predict semantics with per-record
// isolation: one bad record yields an error item without affecting its
// neighbors, and item i always corresponds to input i. An unavailable
// artifact fails the whole call, since no record could succeed.
func (s *PredictionService) PredictBatch(ctx context.Context, recs []domain.FeatureRecord) ([]BatchItem, error) {
	if len(recs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if _, err := s.resolver.Get(ctx); err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(recs))
	for i, rec := range recs {
		result, err := s.Predict(ctx, rec)
		if err != nil {
			items[i] = BatchItem{Err: err}
			continue
		}
		items[i] = BatchItem{Result: result}
	}
	return items, nil
}

func (s *PredictionService) infer(predictor ports.Predictor, rec domain.FeatureRecord) (*domain.PredictionResult, error) {
	var (
		class      int
		confidence *float64
		err        error
	)

	if prob, ok := predictor.(ports.ProbabilityPredictor); ok {
		var p float64
		class, p, err = prob.PredictProba(rec)
		if err == nil {
			confidence = &p
		}
	} else {
		class, err = predictor.Predict(rec)
	}
	if err != nil {
		var unknown *pipeline.UnknownCategoryError
		if errors.As(err, &unknown) {
			return nil, &domain.InferenceError{Field: unknown.Column, Err: err}
		}
		return nil, &domain.InferenceError{Err: err}
	}

	return &domain.PredictionResult{
		Label:      domain.LabelForClass(class),
		Confidence: confidence,
	}, nil
}

// audit appends to the prediction log; a log failure is reported but never
// fails the prediction.
func (s *PredictionService) audit(ctx context.Context, rec domain.FeatureRecord, result *domain.PredictionResult) {
	if s.auditLog == nil {
		return
	}
	entry := ports.PredictionEntry{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		Input:      rec,
		Label:      result.Label,
		Confidence: result.Confidence,
	}
	if err := s.auditLog.Append(ctx, entry); err != nil {
		log.WithError(err).Warn("prediction audit log append failed")
	}
}

// cacheKey serializes the schema fields of a record in declaration order.
// Unknown keys are excluded so two submissions differing only in ignored
// fields share a cache slot.
func (s *PredictionService) cacheKey(rec domain.FeatureRecord) string {
	var b strings.Builder
	for _, f := range s.schema.Fields {
		b.WriteString(f.Name)
		b.WriteByte('=')
		switch v := rec[f.Name].(type) {
		case string:
			b.WriteString(v)
		default:
			if n, ok := domain.AsFloat(v); ok {
				b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
			} else {
				b.WriteString(fmt.Sprint(v))
			}
		}
		b.WriteByte(';')
	}
	return b.String()
}
