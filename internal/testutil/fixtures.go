package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shipment-prediction-service/internal/pipeline"
)

// FeatureOrder is the column layout of the fixture pipeline, matching what
// the production artifact consumes.
var FeatureOrder = []string{
	"Warehouse_block",
	"Mode_of_Shipment",
	"Customer_care_calls",
	"Customer_rating",
	"Cost_of_the_Product",
	"Prior_purchases",
	"Product_importance",
	"Discount_offered",
	"Weight_in_gms",
}

// TrainingRows is a small hand-made training set. Cheap shipments with few
// care calls arrive on time (label 1); heavy discounted ones are delayed
// (label 0), so nearest-neighbor outcomes are easy to reason about.
// Mode_of_Shipment deliberately never contains "Road": it stays inside the
// schema domain but outside the fitted encoder, which is the
// unseen-category case.
func TrainingRows() ([]map[string]any, []int) {
	rows := []map[string]any{
		{"Warehouse_block": "A", "Mode_of_Shipment": "Flight", "Customer_care_calls": 2.0, "Customer_rating": 4.0, "Cost_of_the_Product": 180.0, "Prior_purchases": 3.0, "Product_importance": "low", "Discount_offered": 5.0, "Weight_in_gms": 1200.0},
		{"Warehouse_block": "B", "Mode_of_Shipment": "Flight", "Customer_care_calls": 3.0, "Customer_rating": 5.0, "Cost_of_the_Product": 210.0, "Prior_purchases": 2.0, "Product_importance": "low", "Discount_offered": 8.0, "Weight_in_gms": 1500.0},
		{"Warehouse_block": "A", "Mode_of_Shipment": "Ship", "Customer_care_calls": 2.0, "Customer_rating": 3.0, "Cost_of_the_Product": 195.0, "Prior_purchases": 4.0, "Product_importance": "medium", "Discount_offered": 6.0, "Weight_in_gms": 1400.0},
		{"Warehouse_block": "C", "Mode_of_Shipment": "Flight", "Customer_care_calls": 4.0, "Customer_rating": 3.0, "Cost_of_the_Product": 205.0, "Prior_purchases": 2.0, "Product_importance": "low", "Discount_offered": 10.0, "Weight_in_gms": 3300.0},
		{"Warehouse_block": "D", "Mode_of_Shipment": "Ship", "Customer_care_calls": 6.0, "Customer_rating": 1.0, "Cost_of_the_Product": 260.0, "Prior_purchases": 1.0, "Product_importance": "high", "Discount_offered": 40.0, "Weight_in_gms": 5200.0},
		{"Warehouse_block": "F", "Mode_of_Shipment": "Flight", "Customer_care_calls": 7.0, "Customer_rating": 2.0, "Cost_of_the_Product": 240.0, "Prior_purchases": 1.0, "Product_importance": "high", "Discount_offered": 45.0, "Weight_in_gms": 5600.0},
		{"Warehouse_block": "D", "Mode_of_Shipment": "Ship", "Customer_care_calls": 6.0, "Customer_rating": 2.0, "Cost_of_the_Product": 255.0, "Prior_purchases": 2.0, "Product_importance": "medium", "Discount_offered": 35.0, "Weight_in_gms": 4900.0},
		{"Warehouse_block": "F", "Mode_of_Shipment": "Ship", "Customer_care_calls": 5.0, "Customer_rating": 1.0, "Cost_of_the_Product": 250.0, "Prior_purchases": 1.0, "Product_importance": "high", "Discount_offered": 50.0, "Weight_in_gms": 5800.0},
	}
	labels := []int{1, 1, 1, 1, 0, 0, 0, 0}
	return rows, labels
}

// FitSamplePipeline trains a small real pipeline over TrainingRows.
func FitSamplePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	rows, labels := TrainingRows()
	p, err := pipeline.Fit(FeatureOrder, rows, labels, 3)
	require.NoError(t, err)
	return p
}

// SampleRecord is a valid on-time-looking shipment.
func SampleRecord() map[string]any {
	return map[string]any{
		"Warehouse_block":     "A",
		"Mode_of_Shipment":    "Flight",
		"Customer_care_calls": 4.0,
		"Customer_rating":     3.0,
		"Cost_of_the_Product": 200.0,
		"Prior_purchases":     2.0,
		"Product_importance":  "low",
		"Discount_offered":    10.0,
		"Weight_in_gms":       3500.0,
	}
}
