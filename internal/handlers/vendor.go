package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/middleware"
	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// VendorHandler serves the vendor portal: the vendor's own catalog and its
// interaction stats. Ownership comes from the session, never the payload.
type VendorHandler struct {
	logger         *logrus.Logger
	productSvc     services.ProductServiceInterface
	interactionSvc services.InteractionServiceInterface
	validator      *validator.Validate
}

func NewVendorHandler(logger *logrus.Logger, productSvc services.ProductServiceInterface, interactionSvc services.InteractionServiceInterface) *VendorHandler {
	return &VendorHandler{
		logger:         logger,
		productSvc:     productSvc,
		interactionSvc: interactionSvc,
		validator:      validator.New(),
	}
}

func (h *VendorHandler) ListProducts(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	if vendor == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vendor access required",
			},
		})
		return
	}

	products, err := h.productSvc.ListVendorProducts(c.Request.Context(), vendor.BusinessName)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list vendor products")
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

func (h *VendorHandler) CreateProduct(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	if vendor == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vendor access required",
			},
		})
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Request validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	product, err := h.productSvc.CreateProduct(c.Request.Context(), vendor.BusinessName, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PRODUCT_CREATE_FAILED",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (h *VendorHandler) UpdateProduct(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	if vendor == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vendor access required",
			},
		})
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_PRODUCT_ID",
				"message": "Product ID must be an integer",
			},
		})
		return
	}

	var req models.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid request format",
				"details": err.Error(),
			},
		})
		return
	}

	product, err := h.productSvc.UpdateProduct(c.Request.Context(), vendor.BusinessName, productID, &req)
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
		h.logger.WithError(err).Error("Failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PRODUCT_UPDATE_FAILED",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *VendorHandler) DeleteProduct(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	if vendor == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vendor access required",
			},
		})
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_PRODUCT_ID",
				"message": "Product ID must be an integer",
			},
		})
		return
	}

	if err := h.productSvc.DeleteProduct(c.Request.Context(), vendor.BusinessName, productID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Product not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PRODUCT_DELETE_FAILED",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *VendorHandler) ProductStats(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	if vendor == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vendor access required",
			},
		})
		return
	}

	stats, err := h.interactionSvc.VendorProductStats(c.Request.Context(), vendor.BusinessName)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load product stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "STATS_FAILED",
				"message": "Failed to load product stats",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": stats,
		"count":    len(stats),
	})
}
