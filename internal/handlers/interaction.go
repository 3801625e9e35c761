package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type InteractionHandler struct {
	logger         *logrus.Logger
	interactionSvc services.InteractionServiceInterface
	validator      *validator.Validate
}

func NewInteractionHandler(logger *logrus.Logger, interactionSvc services.InteractionServiceInterface) *InteractionHandler {
	return &InteractionHandler{
		logger:         logger,
		interactionSvc: interactionSvc,
		validator:      validator.New(),
	}
}

func (h *InteractionHandler) Record(c *gin.Context) {
	var req models.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind interaction request")
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
		h.logger.WithError(err).Error("Validation failed for interaction")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Request validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	interaction, err := h.interactionSvc.RecordInteraction(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Product not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to record interaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERACTION_FAILED",
				"message": "Failed to record interaction",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":    interaction,
		"message": "Interaction recorded successfully",
	})
}
