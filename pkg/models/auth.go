package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are embedded in the session token issued on admin or vendor
// login. Exactly one of AdminUsername / VendorBusinessName is set.
type SessionClaims struct {
	SessionID          uuid.UUID `json:"session_id"`
	Role               string    `json:"role"`
	AdminUsername      string    `json:"admin_username,omitempty"`
	AdminName          string    `json:"admin_name,omitempty"`
	VendorID           int64     `json:"vendor_id,omitempty"`
	VendorBusinessName string    `json:"vendor_business_name,omitempty"`
	jwt.RegisteredClaims
}

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleVendor     = "vendor"
)

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VendorLoginRequest struct {
	BusinessName string `json:"business_name" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
