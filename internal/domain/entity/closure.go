package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DailyClosureStateID is the fixed primary key of the single period cursor
// row. The cursor is advanced only under a row lock inside the confirm
// transaction.
const DailyClosureStateID = 1

// DailyClosureState is the open, unconfirmed accounting window. It holds
// where the current period started and which sequence number the next
// confirmed closure will take.
type DailyClosureState struct {
	ID                   int       `gorm:"primary_key" json:"id"`
	CurrentPeriodStartAt time.Time `gorm:"not null" json:"current_period_start_at"`
	NextSequenceNo       int       `gorm:"not null;default:1" json:"next_sequence_no"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName returns the table name for the DailyClosureState model
func (DailyClosureState) TableName() string {
	return "daily_closure_states"
}

// DailyClosure is an immutable snapshot of one confirmed accounting
// period. Only adjustments may be appended after LockedAt.
type DailyClosure struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessDate  time.Time       `gorm:"type:date;not null;index" json:"business_date"`
	SequenceNo    int             `gorm:"uniqueIndex;not null" json:"sequence_no"`
	PeriodStartAt time.Time       `gorm:"not null" json:"period_start_at"`
	PeriodEndAt   time.Time       `gorm:"not null" json:"period_end_at"`
	TaxRate       decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"tax_rate"`
	GrossRevenue  decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"gross_revenue"`
	NetRevenue    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"net_revenue"`
	OrdersCount   int             `gorm:"default:0" json:"orders_count"`
	RefundAmount  decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"refund_amount"`
	VoidAmount    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"void_amount"`
	LockedAt      time.Time       `gorm:"not null" json:"locked_at"`

	PaymentLines []ClosurePaymentLine `gorm:"foreignKey:ClosureID;constraint:OnDelete:CASCADE" json:"payment_lines,omitempty"`
	ItemLines    []ClosureItemLine    `gorm:"foreignKey:ClosureID;constraint:OnDelete:CASCADE" json:"item_lines,omitempty"`
	Adjustments  []ClosureAdjustment  `gorm:"foreignKey:ClosureID;constraint:OnDelete:CASCADE" json:"adjustments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new closure
func (c *DailyClosure) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DailyClosure model
func (DailyClosure) TableName() string {
	return "daily_closures"
}

// ClosurePaymentLine is the expected drawer amount per payment method for
// one closure.
type ClosurePaymentLine struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	ClosureID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"closure_id"`
	Method         enum.PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Group          enum.SettlementGroup `gorm:"size:20;not null" json:"group"`
	ExpectedAmount decimal.Decimal      `gorm:"type:numeric(12,2);default:0" json:"expected_amount"`
	TxCount        int                  `gorm:"default:0" json:"tx_count"`
}

// BeforeCreate generates a UUID before creating a payment line
func (l *ClosurePaymentLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClosurePaymentLine model
func (ClosurePaymentLine) TableName() string {
	return "closure_payment_lines"
}

// ClosureItemLine is the per-menu-item sales breakdown for one closure.
// DiscountImpact is the order discount allocated pro-rata onto this item
// by its share of the order's pre-discount subtotal.
type ClosureItemLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ClosureID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"closure_id"`
	MenuItemID     uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Category       string          `gorm:"size:100" json:"category"`
	QuantitySold   int             `gorm:"default:0" json:"quantity_sold"`
	Revenue        decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"revenue"`
	DiscountImpact decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"discount_impact"`
}

// BeforeCreate generates a UUID before creating an item line
func (l *ClosureItemLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClosureItemLine model
func (ClosureItemLine) TableName() string {
	return "closure_item_lines"
}

// ClosureAdjustment is a signed post-lock correction (card fees, rounding)
// appended to an already confirmed closure. Adjustments tagged with a
// payment method move that method's actual amount; untagged ones affect
// only the grand total.
type ClosureAdjustment struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ClosureID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"closure_id"`
	Type          enum.AdjustmentType `gorm:"size:20;not null" json:"type"`
	Amount        decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount"`
	Note          string              `gorm:"size:500;not null" json:"note"`
	PaymentMethod *enum.PaymentMethod `gorm:"size:20" json:"payment_method,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// BeforeCreate generates a UUID before creating an adjustment
func (a *ClosureAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClosureAdjustment model
func (ClosureAdjustment) TableName() string {
	return "closure_adjustments"
}
