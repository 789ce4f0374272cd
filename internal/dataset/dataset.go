// Package dataset reads the shipping CSV the deployment bundle ships with
// and derives the reference statistics the dashboard and schema endpoints
// expose.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// TargetColumn holds the training label: 1 means the shipment arrived on
// time, 0 means it was delayed.
const TargetColumn = "Reached.on.Time_Y.N"

// RequiredColumns is the dataset schema contract. A file missing any of
// these is rejected at load time.
var RequiredColumns = []string{
	"ID",
	"Warehouse_block",
	"Mode_of_Shipment",
	"Customer_care_calls",
	"Customer_rating",
	"Cost_of_the_Product",
	"Prior_purchases",
	"Product_importance",
	"Gender",
	"Discount_offered",
	"Weight_in_gms",
	TargetColumn,
}

// Dataset is the loaded CSV in columnar form.
type Dataset struct {
	columns map[string][]string
	length  int
}

// Load parses the CSV at path and checks the schema contract: all required
// columns present, at least one data row.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset rows: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	columns := make(map[string][]string, len(header))
	for name, i := range index {
		col := make([]string, len(records))
		for j, rec := range records {
			col[j] = rec[i]
		}
		columns[name] = col
	}
	return &Dataset{columns: columns, length: len(records)}, nil
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return d.length }

// Column returns the raw string values of one column.
func (d *Dataset) Column(name string) ([]string, error) {
	col, ok := d.columns[name]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", name)
	}
	return col, nil
}

// NumericColumn parses one column as float64 values.
func (d *Dataset) NumericColumn(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, s := range col {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Range is the observed min/max/median of a numeric column, used to bound
// form inputs in a client UI.
type Range struct {
	Min    float64
	Max    float64
	Median float64
}

// NumericRange computes the Range of one numeric column.
func (d *Dataset) NumericRange(name string) (Range, error) {
	values, err := d.NumericColumn(name)
	if err != nil {
		return Range{}, err
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Range{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: sorted[len(sorted)/2],
	}, nil
}

// Mean computes the mean of one numeric column.
func (d *Dataset) Mean(name string) (float64, error) {
	values, err := d.NumericColumn(name)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}
