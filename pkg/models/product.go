package models

import "time"

type Product struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Category   string    `json:"category" db:"category" validate:"required,min=1,max=100"`
	Price      float64   `json:"price" db:"price" validate:"min=0"`
	Roast      *string   `json:"roast,omitempty" db:"roast"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	Allergens  []string  `json:"allergens" db:"allergens"`
	CaffeineMg *int      `json:"caffeine_mg,omitempty" db:"caffeine_mg"`
	Vendor     string    `json:"vendor" db:"vendor"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type ProductRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=255"`
	Category   string   `json:"category" validate:"required,min=1,max=100"`
	Price      float64  `json:"price" validate:"min=0"`
	Roast      *string  `json:"roast,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	Allergens  []string `json:"allergens,omitempty"`
	CaffeineMg *int     `json:"caffeine_mg,omitempty"`
}

type ProductUpdateRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Roast      *string  `json:"roast,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	Allergens  []string `json:"allergens,omitempty"`
	CaffeineMg *int     `json:"caffeine_mg,omitempty"`
}
