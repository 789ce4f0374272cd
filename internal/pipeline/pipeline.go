// Package pipeline implements the serialized inference artifact: fitted
// per-column transforms plus a fitted nearest-neighbor classifier, bundled
// with the exact column order the transforms were fitted in. The on-disk
// format is a single msgpack blob.
package pipeline

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Pipeline is the trained artifact loaded by the prediction service.
// It is immutable after fitting and safe for concurrent reads.
type Pipeline struct {
	FeatureOrder []string         `msgpack:"feature_order"`
	Encoders     []*ColumnEncoder `msgpack:"encoders"`
	Model        *KNN             `msgpack:"model"`
}

// Fit trains a pipeline: one encoder per column in order, then the
// classifier over the encoded rows. rows hold raw column values keyed by
// column name; labels are the 0/1 classes.
func Fit(order []string, rows []map[string]any, labels []int, k int) (*Pipeline, error) {
	if len(order) == 0 {
		return nil, errNoColumns
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("row count %d does not match label count %d", len(rows), len(labels))
	}

	p := &Pipeline{FeatureOrder: order, Encoders: make([]*ColumnEncoder, len(order)), Model: NewKNN(k)}
	for i, name := range order {
		col := make([]any, len(rows))
		for j, row := range rows {
			v, ok := row[name]
			if !ok {
				return nil, fmt.Errorf("training row %d is missing column %s", j, name)
			}
			col[j] = v
		}
		enc, err := fitColumn(name, col)
		if err != nil {
			return nil, err
		}
		p.Encoders[i] = enc
	}

	points := make([][]float64, len(rows))
	for j, row := range rows {
		vec, err := p.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("encode training row %d: %w", j, err)
		}
		points[j] = vec
	}
	if err := p.Model.Fit(points, labels); err != nil {
		return nil, err
	}
	return p, nil
}

// Transform encodes one record into the vector layout the classifier was
// trained on. The record must hold every column in FeatureOrder; extra keys
// are ignored.
func (p *Pipeline) Transform(rec map[string]any) ([]float64, error) {
	vec := make([]float64, len(p.FeatureOrder))
	for i, name := range p.FeatureOrder {
		v, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("record is missing column %s", name)
		}
		enc, err := p.Encoders[i].Encode(v)
		if err != nil {
			return nil, err
		}
		vec[i] = enc
	}
	return vec, nil
}

// Predict transforms the record and returns the predicted class.
func (p *Pipeline) Predict(rec map[string]any) (int, error) {
	vec, err := p.Transform(rec)
	if err != nil {
		return 0, err
	}
	return p.Model.Predict(vec)
}

// PredictProba transforms the record and returns the predicted class with
// the neighbor vote share as a probability estimate.
func (p *Pipeline) PredictProba(rec map[string]any) (int, float64, error) {
	vec, err := p.Transform(rec)
	if err != nil {
		return 0, 0, err
	}
	return p.Model.PredictProba(vec)
}

// Encode serializes the fitted pipeline to its binary artifact form.
func (p *Pipeline) Encode() ([]byte, error) {
	return msgpack.Marshal(p)
}

// Save writes the artifact blob to path.
func (p *Pipeline) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode pipeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Decode deserializes an artifact blob and checks that it carries a usable
// fitted pipeline.
func Decode(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(p.FeatureOrder) == 0 || len(p.Encoders) != len(p.FeatureOrder) {
		return nil, fmt.Errorf("artifact does not describe a fitted pipeline")
	}
	if p.Model == nil || len(p.Model.Points) == 0 {
		return nil, fmt.Errorf("artifact does not contain a fitted classifier")
	}
	return &p, nil
}

// Load reads and decodes an artifact file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
