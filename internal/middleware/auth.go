package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

const claimsKey = "session_claims"

// SessionAuth validates the bearer token and stashes the claims in the
// request context. Role checks are layered on top.
func SessionAuth(authService *services.AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "MISSING_AUTHORIZATION",
					"message": "Authorization header is required",
				},
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_AUTHORIZATION_FORMAT",
					"message": "Authorization header must be in format 'Bearer <token>'",
				},
			})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(tokenParts[1])
		if err != nil {
			logger.WithError(err).Warn("Invalid session token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Invalid or expired token",
				},
			})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly rejects sessions that do not carry an admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || (claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin access required",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// VendorOnly rejects non-vendor sessions and re-checks the vendor's current
// status on every request, so an admin block or suspension takes effect
// without waiting for the session to expire.
func VendorOnly(vendorService services.VendorServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != models.RoleVendor {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Vendor access required",
				},
			})
			c.Abort()
			return
		}

		vendor, err := vendorService.GetVendorByBusinessName(c.Request.Context(), claims.VendorBusinessName)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Vendor account not found",
				},
			})
			c.Abort()
			return
		}

		switch vendor.Status {
		case models.VendorStatusBlocked:
			reason := "Blocked by administrator"
			if vendor.BlockReason != nil && *vendor.BlockReason != "" {
				reason = *vendor.BlockReason
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "ACCOUNT_BLOCKED",
					"message": "Account Blocked",
					"reason":  reason,
				},
			})
			c.Abort()
			return
		case models.VendorStatusSuspended:
			reason := "Payment required"
			if vendor.SuspendReason != nil && *vendor.SuspendReason != "" {
				reason = *vendor.SuspendReason
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "ACCOUNT_SUSPENDED",
					"message": "Account Suspended",
					"reason":  reason,
				},
			})
			c.Abort()
			return
		}

		c.Set("vendor", vendor)
		c.Next()
	}
}

// GetClaims returns the session claims set by SessionAuth, or nil.
func GetClaims(c *gin.Context) *models.SessionClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetVendor returns the vendor account set by VendorOnly, or nil.
func GetVendor(c *gin.Context) *models.VendorAccount {
	v, ok := c.Get("vendor")
	if !ok {
		return nil
	}
	vendor, ok := v.(*models.VendorAccount)
	if !ok {
		return nil
	}
	return vendor
}
