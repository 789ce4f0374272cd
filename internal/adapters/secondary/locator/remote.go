package locator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/adapters/secondary/hub"
	"shipment-prediction-service/internal/pipeline"
)

const defaultRetryDelay = 2 * time.Second

// RemoteSource downloads the artifact from a model hub at a pinned
// revision. A transient download failure is retried once after a short
// fixed delay; a second failure is terminal for this resolution attempt.
type RemoteSource struct {
	Hub      *hub.Client
	Repo     string
	Revision string
	Filename string

	// CacheDir, when set, receives a copy of the downloaded blob so the
	// next process start can resolve it locally. The cache is never
	// invalidated; a new artifact ships as a new revision.
	CacheDir string

	// RetryDelay overrides the fixed delay before the single retry.
	RetryDelay time.Duration
}

func (s *RemoteSource) Resolve(ctx context.Context) (*pipeline.Pipeline, error) {
	data, err := s.Hub.Download(ctx, s.Repo, s.Revision, s.Filename)
	if err != nil {
		delay := s.RetryDelay
		if delay <= 0 {
			delay = defaultRetryDelay
		}
		log.WithError(err).WithField("source", s.Describe()).Warn("artifact download failed, retrying once")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		data, err = s.Hub.Download(ctx, s.Repo, s.Revision, s.Filename)
		if err != nil {
			return nil, err
		}
	}

	pipe, err := pipeline.Decode(data)
	if err != nil {
		return nil, err
	}

	if s.CacheDir != "" {
		if err := s.writeCache(data); err != nil {
			log.WithError(err).Warn("could not cache downloaded artifact")
		}
	}
	return pipe, nil
}

func (s *RemoteSource) writeCache(data []byte) error {
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.CacheDir, s.Filename), data, 0o644)
}

func (s *RemoteSource) Describe() string {
	return fmt.Sprintf("remote %s@%s/%s", s.Repo, s.Revision, s.Filename)
}
