package domain

// Label is one of the two output classes of the shipment classifier.
type Label string

const (
	LabelOnTime  Label = "on-time"
	LabelDelayed Label = "delayed"
)

// LabelForClass maps the classifier's raw class index to a Label.
// The trained pipeline uses class 1 for shipments that arrive on time.
func LabelForClass(class int) Label {
	if class == 1 {
		return LabelOnTime
	}
	return LabelDelayed
}

// PredictionResult is created per request and never persisted beyond the
// audit log. Confidence is nil when the loaded artifact exposes no
// probability estimate.
type PredictionResult struct {
	Label      Label
	Confidence *float64
}

// FeatureRecord maps shipping dataset column names to submitted values.
// Numeric fields carry float64 (or any integer type), categorical fields
// carry strings. Keys outside the feature schema are ignored.
type FeatureRecord map[string]any
