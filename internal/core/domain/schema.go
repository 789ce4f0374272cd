package domain

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type FieldKind string

const (
	FieldCategorical FieldKind = "categorical"
	FieldNumeric     FieldKind = "numeric"
)

// FieldSpec declares one input field: its kind, the allowed categorical
// domain, or the numeric bounds.
type FieldSpec struct {
	Name    string    `yaml:"name"`
	Kind    FieldKind `yaml:"kind"`
	Domain  []string  `yaml:"domain,omitempty"`
	Min     *float64  `yaml:"min,omitempty"`
	Max     *float64  `yaml:"max,omitempty"`
	Integer bool      `yaml:"integer,omitempty"`
	// Optional fields are validated when present but may be omitted.
	Optional bool `yaml:"optional,omitempty"`
}

// FeatureSchema is the set of fields the prediction service requires.
// Validation walks the schema, so the field set is data, not code.
type FeatureSchema struct {
	Fields []FieldSpec `yaml:"fields"`
}

func fptr(v float64) *float64 { return &v }

// DefaultSchema mirrors the shipping.csv columns the pipeline consumes.
func DefaultSchema() FeatureSchema {
	return FeatureSchema{Fields: []FieldSpec{
		{Name: "Warehouse_block", Kind: FieldCategorical, Domain: []string{"A", "B", "C", "D", "F"}},
		{Name: "Mode_of_Shipment", Kind: FieldCategorical, Domain: []string{"Flight", "Ship", "Road"}},
		{Name: "Customer_care_calls", Kind: FieldNumeric, Min: fptr(0), Integer: true},
		{Name: "Customer_rating", Kind: FieldNumeric, Min: fptr(1), Max: fptr(5), Integer: true},
		{Name: "Cost_of_the_Product", Kind: FieldNumeric, Min: fptr(0)},
		{Name: "Prior_purchases", Kind: FieldNumeric, Min: fptr(0), Integer: true},
		{Name: "Product_importance", Kind: FieldCategorical, Domain: []string{"low", "medium", "high"}},
		// The shipped artifact does not consume Gender; the dataset
		// carries it and a retrained artifact may, so it is validated
		// when submitted but not required.
		{Name: "Gender", Kind: FieldCategorical, Domain: []string{"F", "M"}, Optional: true},
		{Name: "Discount_offered", Kind: FieldNumeric, Min: fptr(0)},
		{Name: "Weight_in_gms", Kind: FieldNumeric, Min: fptr(0)},
	}}
}

// LoadSchema reads a schema override from a YAML file.
func LoadSchema(path string) (FeatureSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureSchema{}, fmt.Errorf("read schema file: %w", err)
	}
	var s FeatureSchema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return FeatureSchema{}, fmt.Errorf("parse schema file: %w", err)
	}
	if len(s.Fields) == 0 {
		return FeatureSchema{}, fmt.Errorf("schema file %s declares no fields", path)
	}
	for _, f := range s.Fields {
		if f.Name == "" {
			return FeatureSchema{}, fmt.Errorf("schema file %s contains a field without a name", path)
		}
		if f.Kind != FieldCategorical && f.Kind != FieldNumeric {
			return FeatureSchema{}, fmt.Errorf("field %s has unknown kind %q", f.Name, f.Kind)
		}
	}
	return s, nil
}

// Field returns the FieldSpec for a named field.
func (s FeatureSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the schema's field names in declaration order.
func (s FeatureSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// NumericFieldNames returns the numeric field names in declaration order.
func (s FeatureSchema) NumericFieldNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == FieldNumeric {
			names = append(names, f.Name)
		}
	}
	return names
}

// Validate checks one record against the schema. Every non-optional field
// must be present with a value inside its domain; a violation is reported
// as a ValidationError naming the field. Keys outside the schema are
// ignored.
func (s FeatureSchema) Validate(rec FeatureRecord) error {
	for _, f := range s.Fields {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			if f.Optional {
				continue
			}
			return &ValidationError{Field: f.Name, Reason: "missing required field"}
		}
		switch f.Kind {
		case FieldCategorical:
			str, ok := v.(string)
			if !ok {
				return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("expected a string, got %T", v)}
			}
			if !contains(f.Domain, str) {
				return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("value %q is not one of %v", str, f.Domain)}
			}
		case FieldNumeric:
			num, ok := AsFloat(v)
			if !ok {
				return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("expected a number, got %T", v)}
			}
			if math.IsNaN(num) || math.IsInf(num, 0) {
				return &ValidationError{Field: f.Name, Reason: "value must be finite"}
			}
			if f.Integer && num != math.Trunc(num) {
				return &ValidationError{Field: f.Name, Reason: "value must be an integer"}
			}
			if f.Min != nil && num < *f.Min {
				return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("value %v is below minimum %v", num, *f.Min)}
			}
			if f.Max != nil && num > *f.Max {
				return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("value %v is above maximum %v", num, *f.Max)}
			}
		}
	}
	return nil
}

// AsFloat coerces the numeric types a JSON or YAML decoder may hand us.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
