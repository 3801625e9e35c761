package models

import "time"

// Vendor lifecycle statuses. Transitions are driven by the admin endpoints;
// blocked and suspended vendors keep their catalog but lose portal access.
const (
	VendorStatusPending   = "pending"
	VendorStatusApproved  = "approved"
	VendorStatusRejected  = "rejected"
	VendorStatusBlocked   = "blocked"
	VendorStatusSuspended = "suspended"
)

type CustomerAccount struct {
	ID               int64     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email" validate:"required,email"`
	Name             string    `json:"name" db:"name" validate:"required"`
	Allergies        []string  `json:"allergies" db:"allergies"`
	AvoidList        []string  `json:"avoid_list" db:"avoid_list"`
	LikedDrinks      []int64   `json:"liked_drinks" db:"liked_drinks"`
	DislikedDrinks   []int64   `json:"disliked_drinks" db:"disliked_drinks"`
	PreferredVendors []string  `json:"preferred_vendors" db:"preferred_vendors"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type CustomerRequest struct {
	Email            string   `json:"email" validate:"required,email"`
	Name             string   `json:"name" validate:"required"`
	Allergies        []string `json:"allergies,omitempty"`
	AvoidList        []string `json:"avoid_list,omitempty"`
	LikedDrinks      []int64  `json:"liked_drinks,omitempty"`
	DislikedDrinks   []int64  `json:"disliked_drinks,omitempty"`
	PreferredVendors []string `json:"preferred_vendors,omitempty"`
}

type CustomerUpdateRequest struct {
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Name             *string  `json:"name,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
	AvoidList        []string `json:"avoid_list,omitempty"`
	LikedDrinks      []int64  `json:"liked_drinks,omitempty"`
	DislikedDrinks   []int64  `json:"disliked_drinks,omitempty"`
	PreferredVendors []string `json:"preferred_vendors,omitempty"`
}

type VendorAccount struct {
	ID                 int64     `json:"id" db:"id"`
	BusinessName       string    `json:"business_name" db:"business_name" validate:"required"`
	ContactPerson      *string   `json:"contact_person,omitempty" db:"contact_person"`
	Email              string    `json:"email" db:"email" validate:"required,email"`
	Phone              *string   `json:"phone,omitempty" db:"phone"`
	FacebookBusinessID *string   `json:"facebook_business_id,omitempty" db:"facebook_business_id"`
	Status             string    `json:"status" db:"status"`
	RejectReason       *string   `json:"reject_reason,omitempty" db:"reject_reason"`
	BlockReason        *string   `json:"block_reason,omitempty" db:"block_reason"`
	SuspendReason      *string   `json:"suspend_reason,omitempty" db:"suspend_reason"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

type VendorRequest struct {
	BusinessName       string  `json:"business_name" validate:"required"`
	ContactPerson      *string `json:"contact_person,omitempty"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              *string `json:"phone,omitempty"`
	FacebookBusinessID *string `json:"facebook_business_id,omitempty"`
	Status             string  `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected blocked suspended"`
}

type VendorUpdateRequest struct {
	BusinessName       *string `json:"business_name,omitempty"`
	ContactPerson      *string `json:"contact_person,omitempty"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string `json:"phone,omitempty"`
	FacebookBusinessID *string `json:"facebook_business_id,omitempty"`
	Status             *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected blocked suspended"`
}

// VendorLifecycleRequest carries the optional reason for reject/block/suspend.
type VendorLifecycleRequest struct {
	Reason string `json:"reason,omitempty"`
}

type AdminAccount struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
