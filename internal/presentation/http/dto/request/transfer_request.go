package request

import "github.com/google/uuid"

// TransferItemRequest names one source line and how many units to move
type TransferItemRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
}

// TransferRequest moves order lines between tables. With move_all set,
// or with no explicit items, every unpaid unit on the source moves.
type TransferRequest struct {
	Mode          string                `json:"mode" binding:"required,oneof=split merge"`
	SourceTableID uuid.UUID             `json:"source_table_id" binding:"required"`
	TargetTableID uuid.UUID             `json:"target_table_id" binding:"required"`
	Items         []TransferItemRequest `json:"items" binding:"omitempty,dive"`
	MoveAll       bool                  `json:"move_all"`
}
