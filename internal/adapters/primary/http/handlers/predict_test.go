package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/core/services"
	"shipment-prediction-service/internal/dataset"
	"shipment-prediction-service/internal/testutil"
)

const fixtureCSV = `ID,Warehouse_block,Mode_of_Shipment,Customer_care_calls,Customer_rating,Cost_of_the_Product,Prior_purchases,Product_importance,Gender,Discount_offered,Weight_in_gms,Reached.on.Time_Y.N
1,A,Flight,4,2,177,3,low,F,44,1233,1
2,F,Flight,4,5,216,2,low,M,59,3088,1
3,A,Ship,2,2,183,4,low,M,48,3374,0
4,B,Ship,3,3,176,4,medium,M,10,1177,0
`

func writeFixtureCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipping.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

func setupRouter(t *testing.T, resolver ports.ArtifactResolver, withDataset bool, auditLog ports.PredictionLog) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	schema := domain.DefaultSchema()
	predictSvc := services.NewPredictionService(resolver, schema, nil, 0)

	var overviewSvc *services.OverviewService
	if withDataset {
		ds, err := dataset.Load(writeFixtureCSV(t))
		require.NoError(t, err)
		overviewSvc = services.NewOverviewService(ds, schema)
	}

	h := New(predictSvc, overviewSvc, auditLog)
	r := gin.New()
	api := r.Group("/api/v1/shipping")
	h.RegisterRoutes(api)
	return r
}

func pipelineRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouter(t, &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}, false, nil)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePrediction(t *testing.T) {
	r := pipelineRouter(t)

	w := postJSON(t, r, "/api/v1/shipping/predictions", testutil.SampleRecord())
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, []interface{}{"on-time", "delayed"}, resp["label"])
	confidence, ok := resp["confidence"].(float64)
	require.True(t, ok, "confidence missing from response")
	assert.GreaterOrEqual(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestCreatePrediction_ValidationError(t *testing.T) {
	r := pipelineRouter(t)

	rec := testutil.SampleRecord()
	rec["Customer_rating"] = 99

	w := postJSON(t, r, "/api/v1/shipping/predictions", rec)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Customer_rating", resp["field"])
}

func TestCreatePrediction_MissingField(t *testing.T) {
	r := pipelineRouter(t)

	rec := testutil.SampleRecord()
	delete(rec, "Weight_in_gms")

	w := postJSON(t, r, "/api/v1/shipping/predictions", rec)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Weight_in_gms", resp["field"])
}

func TestCreatePrediction_UnseenCategory(t *testing.T) {
	r := pipelineRouter(t)

	rec := testutil.SampleRecord()
	rec["Mode_of_Shipment"] = "Road"

	w := postJSON(t, r, "/api/v1/shipping/predictions", rec)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mode_of_Shipment", resp["field"])
}

func TestCreatePrediction_ServiceUnavailable(t *testing.T) {
	resolver := &testutil.StaticResolver{Err: &domain.ArtifactUnavailableError{Failures: []domain.SourceFailure{
		{Source: "local pipeline.bin", Err: assert.AnError},
		{Source: "remote repo@main/pipeline.bin", Err: assert.AnError},
	}}}
	r := setupRouter(t, resolver, false, nil)

	w := postJSON(t, r, "/api/v1/shipping/predictions", testutil.SampleRecord())
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["sources"], 2)
}

func TestCreatePrediction_MalformedBody(t *testing.T) {
	r := pipelineRouter(t)

	req, _ := http.NewRequest("POST", "/api/v1/shipping/predictions", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBatchPrediction(t *testing.T) {
	r := pipelineRouter(t)

	bad := testutil.SampleRecord()
	bad["Customer_rating"] = 99

	body := map[string]any{"records": []map[string]any{testutil.SampleRecord(), bad, testutil.SampleRecord()}}
	w := postJSON(t, r, "/api/v1/shipping/predictions/batch", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			Index  int             `json:"index"`
			Result json.RawMessage `json:"result"`
			Error  string          `json:"error"`
			Field  string          `json:"field"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Total)
	require.Len(t, resp.Items, 3)

	assert.Equal(t, 0, resp.Items[0].Index)
	assert.NotEmpty(t, resp.Items[0].Result)
	assert.Empty(t, resp.Items[0].Error)

	assert.Equal(t, 1, resp.Items[1].Index)
	assert.Empty(t, resp.Items[1].Result)
	assert.Equal(t, "Customer_rating", resp.Items[1].Field)

	assert.Equal(t, 2, resp.Items[2].Index)
	assert.NotEmpty(t, resp.Items[2].Result)
}

func TestCreateBatchPrediction_MissingRecords(t *testing.T) {
	r := pipelineRouter(t)

	w := postJSON(t, r, "/api/v1/shipping/predictions/batch", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSchema(t *testing.T) {
	r := setupRouter(t, &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}, true, nil)

	req, _ := http.NewRequest("GET", "/api/v1/shipping/schema", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Fields []struct {
			Name   string   `json:"name"`
			Kind   string   `json:"kind"`
			Domain []string `json:"domain"`
			Range  *struct {
				Min    float64 `json:"min"`
				Max    float64 `json:"max"`
				Median float64 `json:"median"`
			} `json:"range"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 10)

	byName := map[string]int{}
	for i, f := range resp.Fields {
		byName[f.Name] = i
	}
	mode := resp.Fields[byName["Mode_of_Shipment"]]
	assert.Equal(t, "categorical", mode.Kind)
	assert.Equal(t, []string{"Flight", "Ship", "Road"}, mode.Domain)

	cost := resp.Fields[byName["Cost_of_the_Product"]]
	require.NotNil(t, cost.Range, "numeric field should carry dataset range")
	assert.Equal(t, 176.0, cost.Range.Min)
	assert.Equal(t, 216.0, cost.Range.Max)
}

func TestGetOverview(t *testing.T) {
	r := setupRouter(t, &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}, true, nil)

	req, _ := http.NewRequest("GET", "/api/v1/shipping/overview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(4), resp["total_shipments"])
	assert.Equal(t, 0.5, resp["on_time_rate"])
	assert.InDelta(t, 188.0, resp["average_cost"], 0.001)
}

func TestGetOverview_NoDataset(t *testing.T) {
	r := pipelineRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/shipping/overview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListRecentPredictions(t *testing.T) {
	confidence := 0.8
	auditLog := new(testutil.MockPredictionLog)
	auditLog.On("Recent", mock.Anything, 20).Return([]ports.PredictionEntry{
		{
			ID:         uuid.New(),
			CreatedAt:  time.Now(),
			Input:      domain.FeatureRecord(testutil.SampleRecord()),
			Label:      domain.LabelOnTime,
			Confidence: &confidence,
		},
	}, nil)

	r := setupRouter(t, &testutil.StaticResolver{Predictor: testutil.FitSamplePipeline(t)}, false, auditLog)

	req, _ := http.NewRequest("GET", "/api/v1/shipping/predictions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total"])
}

func TestListRecentPredictions_NoLog(t *testing.T) {
	r := pipelineRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/shipping/predictions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
