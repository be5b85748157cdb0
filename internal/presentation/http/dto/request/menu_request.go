package request

import "github.com/google/uuid"

// CreateMenuItemRequest represents a menu item creation request
type CreateMenuItemRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name" binding:"required,min=1,max=255"`
	Price      float64    `json:"price" binding:"min=0"`
}

// UpdateMenuItemRequest represents a menu item update request
type UpdateMenuItemRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Price      *float64   `json:"price" binding:"omitempty,min=0"`
	Active     *bool      `json:"active"`
}

// CreateCategoryRequest represents a menu category creation request
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
}

// UpdateCategoryRequest represents a menu category update request
type UpdateCategoryRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order" binding:"omitempty,min=0"`
}

// MenuFilterRequest represents menu listing filter parameters
type MenuFilterRequest struct {
	CategoryID string `form:"category_id"`
	ActiveOnly bool   `form:"active_only"`
}
