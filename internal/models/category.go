package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Slug      string     `json:"slug" db:"slug"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"` // nil means main category
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	Subcategories []*Category `json:"subcategories,omitempty" db:"-"` // For nested responses
}

// IsMain reports whether the category is a top-level grouping.
func (c *Category) IsMain() bool {
	return c.ParentID == nil
}
