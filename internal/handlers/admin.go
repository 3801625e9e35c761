package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/email"
	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type AdminHandler struct {
	logger      *logrus.Logger
	customerSvc services.CustomerServiceInterface
	vendorSvc   services.VendorServiceInterface
	validator   *validator.Validate
}

func NewAdminHandler(logger *logrus.Logger, customerSvc services.CustomerServiceInterface, vendorSvc services.VendorServiceInterface) *AdminHandler {
	return &AdminHandler{
		logger:      logger,
		customerSvc: customerSvc,
		vendorSvc:   vendorSvc,
		validator:   validator.New(),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "ID must be an integer",
			},
		})
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerSvc.ListCustomers(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list customers")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CUSTOMER_LIST_FAILED",
				"message": "Failed to load customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

func (h *AdminHandler) CreateCustomer(c *gin.Context) {
	var req models.CustomerRequest
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

	customer, err := h.customerSvc.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "DUPLICATE_EMAIL",
					"message": "Email already registered",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create customer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CUSTOMER_CREATE_FAILED",
				"message": "Failed to create customer",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.CustomerUpdateRequest
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

	customer, err := h.customerSvc.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "CUSTOMER_NOT_FOUND",
					"message": "Customer not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update customer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CUSTOMER_UPDATE_FAILED",
				"message": "Failed to update customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (h *AdminHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.customerSvc.DeleteCustomer(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "CUSTOMER_NOT_FOUND",
					"message": "Customer not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete customer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CUSTOMER_DELETE_FAILED",
				"message": "Failed to delete customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

func (h *AdminHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorSvc.ListVendors(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list vendors")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "VENDOR_LIST_FAILED",
				"message": "Failed to load vendors",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

func (h *AdminHandler) CreateVendor(c *gin.Context) {
	var req models.VendorRequest
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

	vendor, err := h.vendorSvc.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "DUPLICATE_VENDOR",
					"message": "Vendor with this email or business name already exists",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create vendor")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "VENDOR_CREATE_FAILED",
				"message": "Failed to create vendor",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": vendor})
}

func (h *AdminHandler) UpdateVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.VendorUpdateRequest
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

	vendor, err := h.vendorSvc.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "VENDOR_NOT_FOUND",
					"message": "Vendor not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update vendor")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "VENDOR_UPDATE_FAILED",
				"message": "Failed to update vendor",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vendor})
}

func (h *AdminHandler) DeleteVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.vendorSvc.DeleteVendor(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "VENDOR_NOT_FOUND",
					"message": "Vendor not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete vendor")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "VENDOR_DELETE_FAILED",
				"message": "Failed to delete vendor",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted"})
}

// lifecycle wraps the shared shape of the six status-transition endpoints.
// The email outcome rides along in the response; a failed send never fails
// the transition.
func (h *AdminHandler) lifecycle(c *gin.Context, op func(ctx *gin.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.VendorLifecycleRequest
	if c.Request.ContentLength > 0 {
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
	}

	vendor, emailStatus, err := op(c, id, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "VENDOR_NOT_FOUND",
					"message": "Vendor not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Vendor lifecycle transition failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "LIFECYCLE_FAILED",
				"message": "Failed to update vendor status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         vendor,
		"email_status": emailStatus,
	})
}

func (h *AdminHandler) ApproveVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, _ string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.ApproveVendor(ctx.Request.Context(), id)
	})
}

func (h *AdminHandler) RejectVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.RejectVendor(ctx.Request.Context(), id, reason)
	})
}

func (h *AdminHandler) BlockVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.BlockVendor(ctx.Request.Context(), id, reason)
	})
}

func (h *AdminHandler) UnblockVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, _ string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.UnblockVendor(ctx.Request.Context(), id)
	})
}

func (h *AdminHandler) SuspendVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.SuspendVendor(ctx.Request.Context(), id, reason)
	})
}

func (h *AdminHandler) UnsuspendVendor(c *gin.Context) {
	h.lifecycle(c, func(ctx *gin.Context, id int64, _ string) (*models.VendorAccount, *email.Status, error) {
		return h.vendorSvc.UnsuspendVendor(ctx.Request.Context(), id)
	})
}
