package handlers

import (
	"github.com/gin-gonic/gin"

	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/core/services"
)

type Handler struct {
	predictSvc  *services.PredictionService
	overviewSvc *services.OverviewService
	auditLog    ports.PredictionLog
}

// New wires the HTTP handlers. overviewSvc and auditLog may be nil when the
// reference dataset or the prediction log is not configured; the matching
// endpoints then answer service-unavailable.
func New(predictSvc *services.PredictionService, overviewSvc *services.OverviewService, auditLog ports.PredictionLog) *Handler {
	return &Handler{
		predictSvc:  predictSvc,
		overviewSvc: overviewSvc,
		auditLog:    auditLog,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Predictions
	r.POST("/predictions", h.CreatePrediction)
	r.POST("/predictions/batch", h.CreateBatchPrediction)
	r.GET("/predictions", h.ListRecentPredictions)

	// Schema and dataset overview
	r.GET("/schema", h.GetSchema)
	r.GET("/overview", h.GetOverview)
}
