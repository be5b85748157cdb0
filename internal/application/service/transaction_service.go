package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// TransactionService manages the money ledger: manual finance entries,
// history queries, and the destructive reversal of checkout income.
type TransactionService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	orderRepo       repository.OrderRepository
	orderItemRepo   repository.OrderItemRepository
	tableRepo       repository.TableRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txManager repository.TxManager,
	transactionRepo repository.TransactionRepository,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	tableRepo repository.TableRepository,
) *TransactionService {
	return &TransactionService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
		orderItemRepo:   orderItemRepo,
		tableRepo:       tableRepo,
	}
}

// CreateTransactionInput represents a manual income or expense entry.
// Manual entries carry no order reference and are outside the reversal
// engine's reach.
type CreateTransactionInput struct {
	Type          enum.TransactionType
	Category      string
	Amount        float64
	Note          string
	PaymentMethod enum.PaymentMethod
	BusinessDate  *time.Time
}

// CreateTransaction records a manual ledger entry.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidTransaction, "Transaction type must be income or expense")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Amount must be positive")
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Unknown payment method")
	}

	date := businessDate(time.Now())
	if input.BusinessDate != nil {
		date = businessDate(*input.BusinessDate)
	}

	tx := &entity.Transaction{
		Type:          input.Type,
		Category:      input.Category,
		Amount:        money.FromFloat(input.Amount),
		Note:          input.Note,
		PaymentMethod: input.PaymentMethod,
		BusinessDate:  date,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetTransaction retrieves a transaction with its settlement items.
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeTransactionNotFound, "Transaction")
	}
	return tx, nil
}

// ListTransactions returns the ledger page described by the filters.
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txs, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &pagination.PaginatedResult[entity.Transaction]{
		Items:      txs,
		Pagination: pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	}, nil
}

// ReversalResult reports what a reversal restored.
type ReversalResult struct {
	OrderID        uuid.UUID        `json:"order_id"`
	OrderStatus    enum.OrderStatus `json:"order_status"`
	TableNumber    *int             `json:"table_number,omitempty"`
	ReversedAmount decimal.Decimal  `json:"reversed_amount"`
	NewPaidAmount  decimal.Decimal  `json:"new_paid_amount"`
}

// ReverseTransaction undoes a checkout-emitted income transaction. Each
// settlement item's quantity is subtracted back off its order line's paid
// quantity, the transaction row is deleted outright, and the order's paid
// amount is recomputed from the income transactions that remain. An order
// left with unpaid units reopens, and its table is re-occupied with a
// freshly derived outstanding amount.
func (s *TransactionService) ReverseTransaction(ctx context.Context, transactionID uuid.UUID) (*ReversalResult, error) {
	var result *ReversalResult
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		tx, err := s.transactionRepo.GetWithItems(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return apperror.NewNotFoundError(apperror.CodeTransactionNotFound, "Transaction")
		}
		if tx.Type != enum.TransactionTypeIncome {
			return apperror.NewBadRequestError(apperror.CodeInvalidTransaction, "Only income transactions can be reversed")
		}
		if len(tx.Items) == 0 {
			return apperror.NewBadRequestError(apperror.CodeNoTransactionItems, "Transaction has no settlement items to roll back")
		}
		if tx.OrderID == nil {
			return apperror.NewBadRequestError(apperror.CodeNoOrderID, "Transaction is not linked to an order")
		}

		order, err := s.orderRepo.GetByID(ctx, *tx.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError(apperror.CodeOrderNotFound, "Order")
		}

		var table *entity.DiningTable
		if order.TableID != nil {
			table, err = s.tableRepo.GetByID(ctx, *order.TableID)
			if err != nil {
				return err
			}
			if table != nil {
				// A newer open order on the same table owns the table's
				// amount projection now; reversing under it would corrupt
				// that snapshot.
				open, err := s.orderRepo.GetOpenByTableID(ctx, table.ID)
				if err != nil {
					return err
				}
				if open != nil && open.ID != order.ID {
					return apperror.NewConflictError(apperror.CodeTableHasOpenOrder,
						"Table already has a different open order")
				}
			}
		}

		for _, txItem := range tx.Items {
			line, err := s.orderItemRepo.GetByID(ctx, txItem.OrderItemID)
			if err != nil {
				return err
			}
			if line == nil {
				continue
			}
			line.PaidQuantity -= txItem.Quantity
			if line.PaidQuantity < 0 {
				line.PaidQuantity = 0
			}
			if err := s.orderItemRepo.Update(ctx, line); err != nil {
				return err
			}
		}

		if err := s.transactionRepo.Delete(ctx, tx.ID); err != nil {
			return err
		}

		paidAmount, err := s.transactionRepo.SumIncomeByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}

		items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		subtotal := decimal.Zero
		hasUnpaid := false
		for i := range items {
			subtotal = subtotal.Add(money.Lines(items[i].UnitPrice, items[i].Quantity))
			if items[i].UnpaidQuantity() > 0 {
				hasUnpaid = true
			}
		}

		order.PaidAmount = money.Round2(paidAmount)
		order.Subtotal = money.Round2(subtotal)
		order.Discount = decimal.Zero
		order.Total = order.PaidAmount
		if hasUnpaid {
			order.Status = enum.OrderStatusOpen
			order.ClosedAt = nil
		} else {
			order.Status = enum.OrderStatusPaid
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		var tableNumber *int
		if table != nil {
			tableNumber = &table.Number
			if hasUnpaid {
				table.Status = enum.TableStatusOccupied
				table.Amount = outstandingSubtotal(items)
				now := time.Now()
				table.SeatedAt = &now
				if err := s.tableRepo.Update(ctx, table); err != nil {
					return err
				}
			}
		}

		result = &ReversalResult{
			OrderID:        order.ID,
			OrderStatus:    order.Status,
			TableNumber:    tableNumber,
			ReversedAmount: tx.Amount,
			NewPaidAmount:  order.PaidAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
