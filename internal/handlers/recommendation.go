package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/ai"
	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type RecommendationHandler struct {
	logger            *logrus.Logger
	recommendationSvc services.RecommendationServiceInterface
	validator         *validator.Validate
}

func NewRecommendationHandler(logger *logrus.Logger, recommendationSvc services.RecommendationServiceInterface) *RecommendationHandler {
	return &RecommendationHandler{
		logger:            logger,
		recommendationSvc: recommendationSvc,
		validator:         validator.New(),
	}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind recommendation request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid request format",
				"details": err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.WithError(err).Error("Validation failed for recommendation request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Request validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	result, err := h.recommendationSvc.Recommend(c.Request.Context(), &req)
	if err != nil {
		var statusErr *ai.StatusError
		if errors.As(err, &statusErr) {
			h.logger.WithField("status", statusErr.StatusCode).Error("Generation service returned an error")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Ollama API error",
				"status": statusErr.StatusCode,
			})
			return
		}
		if errors.Is(err, ai.ErrUnreachable) {
			h.logger.WithError(err).Error("Generation service unreachable")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Cannot connect to Ollama. Make sure Ollama is running.",
				"details": err.Error(),
			})
			return
		}
		h.logger.WithError(err).Error("Recommendation pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
