package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipment-prediction-service/internal/core/domain"
)

// mapDomainError translates the error taxonomy to HTTP. Each class maps
// to a distinct status so a client can tell "service not ready" (503)
// from "fix your input" (400) from "the model rejected this input" (422).
func mapDomainError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	var inference *domain.InferenceError
	var unavailable *domain.ArtifactUnavailableError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Error(),
			"field": validation.Field,
		})

	case errors.As(err, &inference):
		body := gin.H{"error": inference.Error()}
		if inference.Field != "" {
			body["field"] = inference.Field
		}
		c.JSON(http.StatusUnprocessableEntity, body)

	case errors.As(err, &unavailable):
		sources := make([]string, 0, len(unavailable.Failures))
		for _, f := range unavailable.Failures {
			sources = append(sources, f.String())
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "prediction service is not ready: no pipeline artifact could be loaded",
			"sources": sources,
		})

	case errors.Is(err, domain.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrLogNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
