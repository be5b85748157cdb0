package request

import "github.com/google/uuid"

// CheckoutAAItemRequest asks to settle a quantity of one menu item as
// part of an itemized split.
type CheckoutAAItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a settlement request against an open order.
// Subtotal and total are what the client displayed; the server recomputes
// both and rejects the request when they diverge.
type CheckoutRequest struct {
	TableID         uuid.UUID               `json:"table_id" binding:"required"`
	OrderID         uuid.UUID               `json:"order_id" binding:"required"`
	Mode            string                  `json:"mode" binding:"required,oneof=full aa"`
	PaymentMethod   string                  `json:"payment_method" binding:"required"`
	DiscountPercent float64                 `json:"discount_percent" binding:"min=0,max=100"`
	Subtotal        float64                 `json:"subtotal" binding:"min=0"`
	Total           float64                 `json:"total" binding:"min=0"`
	ReceivedAmount  *float64                `json:"received_amount" binding:"omitempty,min=0"`
	Items           []CheckoutAAItemRequest `json:"items" binding:"omitempty,dive"`
}
