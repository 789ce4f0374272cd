package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"shipment-prediction-service/internal/pipeline"
)

// LocalSource loads the artifact from a filesystem path.
type LocalSource struct {
	Path string
}

func (s *LocalSource) Resolve(_ context.Context) (*pipeline.Pipeline, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact file not found")
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return pipeline.Decode(data)
}

func (s *LocalSource) Describe() string {
	return "local " + s.Path
}
