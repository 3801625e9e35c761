package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InteractionLike    = "like"
	InteractionDislike = "dislike"
)

type ProductInteraction struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ProductID     int64     `json:"product_id" db:"product_id"`
	Type          string    `json:"type" db:"interaction_type"`
	CustomerEmail *string   `json:"customer_email,omitempty" db:"customer_email"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type InteractionRequest struct {
	ProductID     int64   `json:"product_id" validate:"required,min=1"`
	Type          string  `json:"type" validate:"required,oneof=like dislike"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
}

// ProductStats aggregates interaction counts for one product, used by the
// vendor dashboard.
type ProductStats struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Likes     int    `json:"likes"`
	Dislikes  int    `json:"dislikes"`
}
