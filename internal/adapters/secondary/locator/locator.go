// Package locator resolves the trained pipeline artifact from an ordered
// list of sources. Sources are tried uniformly in order and the first
// success wins; adding a new kind of source means adding a Source
// implementation, not a branch.
package locator

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/pipeline"
)

// Source is one candidate location for the artifact.
type Source interface {
	// Resolve returns the deserialized pipeline or why this source
	// cannot provide it.
	Resolve(ctx context.Context) (*pipeline.Pipeline, error)
	// Describe names the source for failure reports and logs.
	Describe() string
}

// Locator loads the artifact at most once per process. Concurrent first
// callers share a single resolution attempt; every later call returns the
// same pipeline instance or the same failure.
type Locator struct {
	sources []Source

	once sync.Once
	pipe *pipeline.Pipeline
	err  error
}

func New(sources ...Source) *Locator {
	return &Locator{sources: sources}
}

// Get resolves and caches the artifact. The outcome of the first call is
// final for the process lifetime: a failed resolution is not retried.
func (l *Locator) Get(ctx context.Context) (ports.Predictor, error) {
	l.once.Do(func() {
		l.pipe, l.err = l.resolve(ctx)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.pipe, nil
}

func (l *Locator) resolve(ctx context.Context) (*pipeline.Pipeline, error) {
	failures := make([]domain.SourceFailure, 0, len(l.sources))
	for _, src := range l.sources {
		pipe, err := src.Resolve(ctx)
		if err != nil {
			log.WithError(err).WithField("source", src.Describe()).Warn("artifact source failed")
			failures = append(failures, domain.SourceFailure{Source: src.Describe(), Err: err})
			continue
		}
		log.WithFields(log.Fields{
			"source":   src.Describe(),
			"features": len(pipe.FeatureOrder),
		}).Info("pipeline artifact loaded")
		return pipe, nil
	}
	return nil, &domain.ArtifactUnavailableError{Failures: failures}
}
