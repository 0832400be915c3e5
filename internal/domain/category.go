package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ProductCategory groups products for the category-management surface.
// Categories live only in the remote relational store. Name uniqueness is a
// convention; nothing here enforces it.
type ProductCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPalette is the fixed set of colours a category may use.
// The first entry is the default.
var CategoryPalette = []string{
	"#3b82f6", // blue
	"#10b981", // green
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#6b7280", // gray
	"#14b8a6", // teal
}

// IsPaletteColor reports whether c is one of CategoryPalette.
func IsPaletteColor(c string) bool {
	return slices.Contains(CategoryPalette, c)
}
