package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Description    string      `json:"description" db:"description"`
	Price          float64     `json:"price" db:"price"` // rental price per week
	Quantity       int         `json:"quantity" db:"quantity"`
	Dimensions     string      `json:"dimensions" db:"dimensions"`
	Images         []string    `json:"images" db:"images"` // insertion order is display order
	CategoryID     *uuid.UUID  `json:"category_id" db:"category_id"`
	SubcategoryIDs []uuid.UUID `json:"subcategory_ids" db:"-"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}
