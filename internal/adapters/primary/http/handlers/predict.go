package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/adapters/primary/http/dto"
	"shipment-prediction-service/internal/core/domain"
)

const maxBatchSize = 1000

func (h *Handler) CreatePrediction(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object of feature values"})
		return
	}

	result, err := h.predictSvc.Predict(c.Request.Context(), domain.FeatureRecord(req))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionResponse(result))
}

func (h *Handler) CreateBatchPrediction(c *gin.Context) {
	var req dto.BatchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must carry a records array"})
		return
	}
	if len(req.Records) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch exceeds maximum of " + strconv.Itoa(maxBatchSize) + " records"})
		return
	}

	recs := make([]domain.FeatureRecord, len(req.Records))
	for i, r := range req.Records {
		recs[i] = domain.FeatureRecord(r)
	}

	items, err := h.predictSvc.PredictBatch(c.Request.Context(), recs)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchPredictResponse(items))
}

func (h *Handler) ListRecentPredictions(c *gin.Context) {
	if h.auditLog == nil {
		mapDomainError(c, domain.ErrLogNotAvailable)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}

	entries, err := h.auditLog.Recent(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("list recent predictions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read prediction log"})
		return
	}

	items := make([]dto.PredictionLogItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToPredictionLogItemResponse(e))
	}

	c.JSON(http.StatusOK, dto.ListPredictionLogResponse{Items: items, Total: len(items)})
}
