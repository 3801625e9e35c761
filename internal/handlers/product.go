package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/services"
)

type ProductHandler struct {
	logger     *logrus.Logger
	productSvc services.ProductServiceInterface
}

func NewProductHandler(logger *logrus.Logger, productSvc services.ProductServiceInterface) *ProductHandler {
	return &ProductHandler{
		logger:     logger,
		productSvc: productSvc,
	}
}

// List returns the full public catalog.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productSvc.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CATALOG_FAILED",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}
