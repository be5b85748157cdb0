package request

import "github.com/google/uuid"

// OrderLineRequest is one requested line in an incoming order batch
type OrderLineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	Notes      string    `json:"notes" binding:"omitempty,max=500"`
}

// CreateOrderRequest adds a batch of lines to a table's open order,
// creating the order when the table has none.
type CreateOrderRequest struct {
	TableID       uuid.UUID          `json:"table_id" binding:"required"`
	Items         []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	GuestCount    *int               `json:"guest_count" binding:"omitempty,min=1"`
	PaymentMethod *string            `json:"payment_method"`
}

// UpdateOrderItemRequest mutates one unpaid order line
type UpdateOrderItemRequest struct {
	UpdateType string `json:"update_type" binding:"required,oneof=decrement remove"`
}

// OrderFilterRequest represents order history filter parameters
type OrderFilterRequest struct {
	Status    string `form:"status"`
	TableID   string `form:"table_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
