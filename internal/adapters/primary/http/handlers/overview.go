package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/adapters/primary/http/dto"
	"shipment-prediction-service/internal/dataset"
)

func (h *Handler) GetOverview(c *gin.Context) {
	if h.overviewSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference dataset is not loaded"})
		return
	}

	overview, err := h.overviewSvc.Overview()
	if err != nil {
		log.WithError(err).Error("compute dataset overview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dataset overview"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewResponse(overview))
}

// GetSchema describes the input contract: field kinds, allowed domains and
// bounds, plus dataset-observed ranges when a reference dataset is loaded.
// A client form is built entirely from this response.
func (h *Handler) GetSchema(c *gin.Context) {
	var ranges map[string]dataset.Range
	if h.overviewSvc != nil {
		r, err := h.overviewSvc.FeatureRanges()
		if err != nil {
			log.WithError(err).Warn("compute feature ranges failed")
		} else {
			ranges = r
		}
	}

	c.JSON(http.StatusOK, dto.ToSchemaResponse(h.predictSvc.Schema(), ranges))
}
