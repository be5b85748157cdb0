package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Transaction is one row in the money ledger. Checkout emits income
// transactions tied to an order; manual finance entries carry no order
// reference and cannot be reversed through the reversal engine.
type Transaction struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Type          enum.TransactionType `gorm:"size:20;not null;index" json:"type"`
	Category      string               `gorm:"size:100" json:"category"`
	Amount        decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"amount"`
	Note          string               `gorm:"size:500" json:"note,omitempty"`
	PaymentMethod enum.PaymentMethod   `gorm:"size:20" json:"payment_method"`
	OrderID       *uuid.UUID           `gorm:"type:uuid;index" json:"order_id,omitempty"`
	BusinessDate  time.Time            `gorm:"type:date;not null;index" json:"business_date"`
	CreatedAt     time.Time            `gorm:"index" json:"created_at"`

	Order *Order            `gorm:"foreignKey:OrderID" json:"-"`
	Items []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem records how many units of which order line one
// transaction settled. It is the sole input to paid-quantity rollback on
// reversal, so Quantity is the settled delta, not the line's full quantity.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	OrderItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_item_id"`
	MenuItemID    uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`

	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}
