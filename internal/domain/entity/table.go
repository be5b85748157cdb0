package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DiningTable represents a physical table in the restaurant. Status and
// Amount are projections maintained by the ledger core: Amount mirrors the
// unpaid value of the table's open order and is recomputed transactionally
// whenever that order's lines change. It is never a source of truth.
type DiningTable struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number     int              `gorm:"unique;not null" json:"number"`
	Area       string           `gorm:"size:100" json:"area"`
	Seats      int              `gorm:"default:4" json:"seats"`
	Status     enum.TableStatus `gorm:"default:0" json:"status"`
	Amount     decimal.Decimal  `gorm:"type:numeric(12,2);default:0" json:"amount"`
	GuestCount int              `gorm:"default:0" json:"guest_count"`
	SeatedAt   *time.Time       `json:"seated_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiningTable model
func (DiningTable) TableName() string {
	return "dining_tables"
}
