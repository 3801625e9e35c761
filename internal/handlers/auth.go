package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/middleware"
	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type AuthHandler struct {
	logger    *logrus.Logger
	authSvc   *services.AuthService
	validator *validator.Validate
}

func NewAuthHandler(logger *logrus.Logger, authSvc *services.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		authSvc:   authSvc,
		validator: validator.New(),
	}
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
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

	token, admin, err := h.authSvc.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Invalid username or password",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "LOGIN_FAILED",
				"message": "Failed to log in",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"username": admin.Username,
			"name":     admin.Name,
			"role":     admin.Role,
		},
	})
}

func (h *AuthHandler) AdminLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims != nil {
		if err := h.authSvc.RevokeSession(claims.SessionID); err != nil {
			h.logger.WithError(err).Warn("Failed to revoke session")
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// AdminSession reports who the current token belongs to, for page reloads.
func (h *AuthHandler) AdminSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "INVALID_TOKEN",
				"message": "Invalid or expired token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{
			"username": claims.AdminUsername,
			"name":     claims.AdminName,
			"role":     claims.Role,
		},
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
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

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "PASSWORD_MISMATCH",
				"message": "New password and confirmation do not match",
			},
		})
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil || claims.AdminUsername == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "INVALID_TOKEN",
				"message": "Invalid or expired token",
			},
		})
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), claims.AdminUsername, &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Current password is incorrect",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Password change failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PASSWORD_CHANGE_FAILED",
				"message": "Failed to change password",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// VendorLogin stands in for a Facebook Business OAuth flow: the business name
// is trusted and auto-registered on first sight.
func (h *AuthHandler) VendorLogin(c *gin.Context) {
	var req models.VendorLoginRequest
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

	token, vendor, err := h.authSvc.VendorLogin(c.Request.Context(), req.BusinessName)
	if err != nil {
		h.logger.WithError(err).Error("Vendor login failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "LOGIN_FAILED",
				"message": "Failed to log in",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"vendor": vendor,
	})
}
