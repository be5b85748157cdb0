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

// TransactionRepository defines the interface for ledger transaction operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// Delete removes the transaction row and cascades to its items.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// SumIncomeByOrderID totals the still-existing income transactions
	// for an order; it is the order's paid amount of record.
	SumIncomeByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

// TransactionFilterParams contains filtering parameters for ledger queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.TransactionType
	Category   string
	StartDate  *time.Time
	EndDate    *time.Time
	OrderID    *uuid.UUID
}
