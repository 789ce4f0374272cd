package pipeline

import (
	"errors"
	"fmt"
	"sort"
)

// UnknownCategoryError is raised at transform time when a categorical value
// was never seen while fitting the encoder. The pipeline is strict about
// this: a value outside the trained category set is an inference failure,
// never a silent bin.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("column %s: category %q was not seen during training", e.Column, e.Value)
}

// ColumnEncoder is the fitted transform for one input column. Categorical
// columns carry an ordinal mapping; numeric columns carry min-max bounds.
type ColumnEncoder struct {
	Name       string         `msgpack:"name"`
	Categories map[string]int `msgpack:"categories,omitempty"`
	Min        float64        `msgpack:"min"`
	Max        float64        `msgpack:"max"`
}

// Categorical reports whether the encoder maps category strings.
func (e *ColumnEncoder) Categorical() bool { return e.Categories != nil }

// fitColumn builds an encoder from a column of training values.
func fitColumn(name string, values []any) (*ColumnEncoder, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("column %s: no training values", name)
	}
	if _, ok := values[0].(string); ok {
		seen := map[string]struct{}{}
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("column %s: mixed string and numeric values", name)
			}
			seen[s] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for s := range seen {
			cats = append(cats, s)
		}
		// Deterministic ordinals so refitting the same data yields the
		// same artifact bytes.
		sort.Strings(cats)
		mapping := make(map[string]int, len(cats))
		for i, s := range cats {
			mapping[s] = i
		}
		return &ColumnEncoder{Name: name, Categories: mapping}, nil
	}

	min, max := 0.0, 0.0
	for i, v := range values {
		n, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("column %s: value %v is neither string nor number", name, v)
		}
		if i == 0 || n < min {
			min = n
		}
		if i == 0 || n > max {
			max = n
		}
	}
	return &ColumnEncoder{Name: name, Min: min, Max: max}, nil
}

// Encode maps one raw value to its numeric feature. Categorical values are
// replaced by their training ordinal; numeric values are min-max scaled to
// the training range (values outside the range extrapolate linearly).
func (e *ColumnEncoder) Encode(v any) (float64, error) {
	if e.Categorical() {
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("column %s: expected a string, got %T", e.Name, v)
		}
		ord, ok := e.Categories[s]
		if !ok {
			return 0, &UnknownCategoryError{Column: e.Name, Value: s}
		}
		return float64(ord), nil
	}

	n, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("column %s: expected a number, got %T", e.Name, v)
	}
	span := e.Max - e.Min
	if span == 0 {
		return 0, nil
	}
	return (n - e.Min) / span, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

var errNoColumns = errors.New("pipeline has no fitted columns")
