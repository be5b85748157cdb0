package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// ClosureRepository defines the interface for daily closure persistence
type ClosureRepository interface {
	GetState(ctx context.Context) (*entity.DailyClosureState, error)
	// LockState loads the period cursor under an exclusive row lock. It
	// must be called inside a transaction; concurrent confirmations
	// serialize on this lock.
	LockState(ctx context.Context) (*entity.DailyClosureState, error)
	SaveState(ctx context.Context, state *entity.DailyClosureState) error
	Create(ctx context.Context, closure *entity.DailyClosure) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DailyClosure, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DailyClosure, int64, error)
	AddAdjustment(ctx context.Context, adj *entity.ClosureAdjustment) error
}

// PaymentTotalRow is one payment method's income total inside a period.
type PaymentTotalRow struct {
	Method  enum.PaymentMethod `json:"method"`
	Amount  decimal.Decimal    `json:"amount"`
	TxCount int                `json:"tx_count"`
}

// ItemSaleRow is one settled transaction item inside a period together
// with its parent order's discount context, so the caller can allocate the
// order discount pro-rata across lines.
type ItemSaleRow struct {
	MenuItemID    uuid.UUID       `json:"menu_item_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Revenue       decimal.Decimal `json:"revenue"`
	OrderID       uuid.UUID       `json:"order_id"`
	OrderDiscount decimal.Decimal `json:"order_discount"`
	OrderSubtotal decimal.Decimal `json:"order_subtotal"`
}

// DailyRevenueRow is one day's income/expense totals for reports.
type DailyRevenueRow struct {
	Day     time.Time       `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ClosureReportRepository defines the read-only aggregate queries backing
// closure previews, closure confirmation, and revenue reports. These take
// no locks; their numbers are a point-in-time view.
type ClosureReportRepository interface {
	IncomeByMethod(ctx context.Context, from, to time.Time) ([]PaymentTotalRow, error)
	SettledItems(ctx context.Context, from, to time.Time) ([]ItemSaleRow, error)
	IncomeOrdersCount(ctx context.Context, from, to time.Time) (int64, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]DailyRevenueRow, error)
}
