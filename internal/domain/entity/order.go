package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is the check for one seating. At most one open order exists per
// table. Total = Subtotal - Discount. TotalAmount is the undiscounted
// running total of every batch ever added and, once a checkout has run, is
// frozen so partial settlements do not shrink it. PaidAmount accumulates
// settled value across full and split checkouts.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TableID       *uuid.UUID         `gorm:"type:uuid;index" json:"table_id,omitempty"`
	Status        enum.OrderStatus   `gorm:"default:0;index" json:"status"`
	Subtotal      decimal.Decimal    `gorm:"type:numeric(12,2);default:0" json:"subtotal"`
	Discount      decimal.Decimal    `gorm:"type:numeric(12,2);default:0" json:"discount"`
	Total         decimal.Decimal    `gorm:"type:numeric(12,2);default:0" json:"total"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(12,2);default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal    `gorm:"type:numeric(12,2);default:0" json:"paid_amount"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20" json:"payment_method,omitempty"`
	GuestCount    int                `gorm:"default:0" json:"guest_count"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	ClosedAt      *time.Time         `json:"closed_at,omitempty"`

	Table *DiningTable `gorm:"foreignKey:TableID" json:"-"`
	Items []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line in an order batch. UnitPrice is snapshotted
// from the menu at insertion and immutable afterwards. A line is settled
// when PaidQuantity equals Quantity; partially settled lines keep their row.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	PaidQuantity int             `gorm:"default:0" json:"paid_quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Notes        string          `gorm:"size:500" json:"notes,omitempty"`
	BatchNo      int             `gorm:"not null;default:1" json:"batch_no"`
	CreatedAt    time.Time       `json:"created_at"`

	Order    Order    `gorm:"foreignKey:OrderID" json:"-"`
	MenuItem MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// UnpaidQuantity returns the remaining unsettled units on the line.
func (i *OrderItem) UnpaidQuantity() int {
	return i.Quantity - i.PaidQuantity
}

// UnpaidValue returns the monetary value of the unsettled units.
func (i *OrderItem) UnpaidValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.UnpaidQuantity())))
}
