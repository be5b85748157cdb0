package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
)

// TransferService moves unpaid line quantity between two tables' open
// orders, either splitting part of an order off to another table or
// merging it into the target's existing order.
type TransferService struct {
	txManager     repository.TxManager
	tableRepo     repository.TableRepository
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
}

// NewTransferService creates a new transfer service
func NewTransferService(
	txManager repository.TxManager,
	tableRepo repository.TableRepository,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
) *TransferService {
	return &TransferService{
		txManager:     txManager,
		tableRepo:     tableRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

// TransferItemInput names one source line and how many units to move.
type TransferItemInput struct {
	OrderItemID uuid.UUID
	Quantity    int
}

// TransferInput represents a table transfer request. With MoveAll set, or
// with no explicit items, every unpaid unit on the source moves.
type TransferInput struct {
	Mode          enum.TransferMode
	SourceTableID uuid.UUID
	TargetTableID uuid.UUID
	Items         []TransferItemInput
	MoveAll       bool
}

// TransferSide is one table's state after a transfer.
type TransferSide struct {
	TableID uuid.UUID     `json:"table_id"`
	Order   *entity.Order `json:"order"`
	Batches []OrderBatch  `json:"batches"`
}

// TransferResult reports both sides after the move.
type TransferResult struct {
	Source TransferSide `json:"source"`
	Target TransferSide `json:"target"`
}

// Transfer moves the requested quantities atomically. Only fully
// unsettled orders take part on either side; moved lines keep their
// snapshotted unit price and notes and land on the target at a fresh
// batch number. A source order emptied by the move is cancelled and its
// table reset. Both tables' amount projections are re-derived from their
// complete remaining line sets.
func (s *TransferService) Transfer(ctx context.Context, input *TransferInput) (*TransferResult, error) {
	if !input.Mode.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidTransferMode, "Transfer mode must be split or merge")
	}
	if input.SourceTableID == input.TargetTableID {
		return nil, apperror.NewBadRequestError(apperror.CodeSameTable, "Source and target tables must differ")
	}

	var result *TransferResult
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sourceTable, err := s.tableRepo.GetByID(ctx, input.SourceTableID)
		if err != nil {
			return err
		}
		if sourceTable == nil {
			return apperror.NewNotFoundError(apperror.CodeTableNotFound, "Source table")
		}
		targetTable, err := s.tableRepo.GetByID(ctx, input.TargetTableID)
		if err != nil {
			return err
		}
		if targetTable == nil {
			return apperror.NewNotFoundError(apperror.CodeTableNotFound, "Target table")
		}

		sourceOrder, err := s.orderRepo.GetOpenByTableID(ctx, input.SourceTableID)
		if err != nil {
			return err
		}
		if sourceOrder == nil {
			return apperror.NewNotFoundError(apperror.CodeOrderNotFound, "Source table has no open order")
		}
		if sourceOrder.PaidAmount.GreaterThan(money.Epsilon) {
			return apperror.NewConflictError(apperror.CodeOrderPartiallyPaid,
				"Source order has settled payments and cannot be transferred")
		}

		sourceItems, err := s.orderItemRepo.GetByOrderID(ctx, sourceOrder.ID)
		if err != nil {
			return err
		}

		moves, err := resolveTransferMoves(sourceItems, input)
		if err != nil {
			return err
		}

		targetOrder, err := s.orderRepo.GetOpenByTableID(ctx, input.TargetTableID)
		if err != nil {
			return err
		}
		if targetOrder != nil && targetOrder.PaidAmount.GreaterThan(money.Epsilon) {
			return apperror.NewConflictError(apperror.CodeOrderPartiallyPaid,
				"Target order has settled payments and cannot receive a transfer")
		}
		if targetOrder == nil {
			targetOrder = &entity.Order{
				TableID:  &targetTable.ID,
				Status:   enum.OrderStatusOpen,
				Subtotal: decimal.Zero,
				Total:    decimal.Zero,
			}
			if err := s.orderRepo.Create(ctx, targetOrder); err != nil {
				return err
			}
		}

		maxBatch, err := s.orderItemRepo.MaxBatchNo(ctx, targetOrder.ID)
		if err != nil {
			return err
		}
		batchNo := maxBatch + 1

		movedValue := decimal.Zero
		newLines := make([]entity.OrderItem, 0, len(moves))
		for _, mv := range moves {
			line := mv.line
			movedValue = movedValue.Add(money.Lines(line.UnitPrice, mv.quantity))
			newLines = append(newLines, entity.OrderItem{
				OrderID:    targetOrder.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   mv.quantity,
				UnitPrice:  line.UnitPrice,
				Notes:      line.Notes,
				BatchNo:    batchNo,
			})

			if mv.quantity == line.Quantity {
				if err := s.orderItemRepo.Delete(ctx, line.ID); err != nil {
					return err
				}
			} else {
				line.Quantity -= mv.quantity
				if err := s.orderItemRepo.Update(ctx, line); err != nil {
					return err
				}
			}
		}
		if err := s.orderItemRepo.CreateBatch(ctx, newLines); err != nil {
			return err
		}
		movedValue = money.Round2(movedValue)

		sourceOrder.Subtotal = money.Round2(sourceOrder.Subtotal.Sub(movedValue))
		sourceOrder.TotalAmount = money.Round2(sourceOrder.TotalAmount.Sub(movedValue))
		sourceOrder.Total = money.Round2(sourceOrder.Subtotal.Sub(sourceOrder.Discount))
		targetOrder.Subtotal = money.Round2(targetOrder.Subtotal.Add(movedValue))
		targetOrder.TotalAmount = money.Round2(targetOrder.TotalAmount.Add(movedValue))
		targetOrder.Total = money.Round2(targetOrder.Subtotal.Sub(targetOrder.Discount))

		sourceRemaining, err := s.orderItemRepo.GetByOrderID(ctx, sourceOrder.ID)
		if err != nil {
			return err
		}
		targetRemaining, err := s.orderItemRepo.GetByOrderID(ctx, targetOrder.ID)
		if err != nil {
			return err
		}

		sourceEmptied := len(sourceRemaining) == 0
		if sourceEmptied {
			now := time.Now()
			sourceOrder.Status = enum.OrderStatusCancelled
			sourceOrder.ClosedAt = &now
		}
		if err := s.orderRepo.Update(ctx, sourceOrder); err != nil {
			return err
		}
		if err := s.orderRepo.Update(ctx, targetOrder); err != nil {
			return err
		}

		// Table amounts are fully re-derived from each side's remaining
		// lines rather than patched by the moved delta.
		if sourceEmptied {
			sourceTable.Status = enum.TableStatusIdle
			sourceTable.Amount = decimal.Zero
			sourceTable.GuestCount = 0
			sourceTable.SeatedAt = nil
		} else {
			sourceTable.Status = enum.TableStatusOccupied
			sourceTable.Amount = outstandingSubtotal(sourceRemaining)
		}
		if err := s.tableRepo.Update(ctx, sourceTable); err != nil {
			return err
		}

		targetTable.Status = enum.TableStatusOccupied
		targetTable.Amount = outstandingSubtotal(targetRemaining)
		if targetTable.SeatedAt == nil {
			now := time.Now()
			targetTable.SeatedAt = &now
		}
		if err := s.tableRepo.Update(ctx, targetTable); err != nil {
			return err
		}

		source := TransferSide{TableID: sourceTable.ID, Batches: BuildBatches(sourceRemaining, true)}
		if !sourceEmptied {
			source.Order = sourceOrder
		}
		result = &TransferResult{
			Source: source,
			Target: TransferSide{
				TableID: targetTable.ID,
				Order:   targetOrder,
				Batches: BuildBatches(targetRemaining, true),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type transferMove struct {
	line     *entity.OrderItem
	quantity int
}

// resolveTransferMoves turns the request into concrete per-line moves.
// Without an explicit item list (or with MoveAll) every unpaid unit of
// every line moves. Explicit requests naming the same line merge before
// validation, so their combined quantity is checked against the line's
// available quantity; lines with settled units are rejected.
func resolveTransferMoves(sourceItems []entity.OrderItem, input *TransferInput) ([]transferMove, error) {
	if input.MoveAll || len(input.Items) == 0 {
		moves := make([]transferMove, 0, len(sourceItems))
		for i := range sourceItems {
			line := &sourceItems[i]
			if line.UnpaidQuantity() <= 0 {
				continue
			}
			moves = append(moves, transferMove{line: line, quantity: line.UnpaidQuantity()})
		}
		if len(moves) == 0 {
			return nil, apperror.NewBadRequestError(apperror.CodeOrderEmpty, "Source order has no transferable items")
		}
		return moves, nil
	}

	byID := make(map[uuid.UUID]*entity.OrderItem, len(sourceItems))
	for i := range sourceItems {
		byID[sourceItems[i].ID] = &sourceItems[i]
	}

	requested := make(map[uuid.UUID]int, len(input.Items))
	order := make([]uuid.UUID, 0, len(input.Items))
	for _, req := range input.Items {
		if _, ok := byID[req.OrderItemID]; !ok {
			return nil, apperror.NewNotFoundError(apperror.CodeOrderItemNotFound, "Order item")
		}
		if req.Quantity <= 0 {
			return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Transfer quantity must be positive")
		}
		if _, seen := requested[req.OrderItemID]; !seen {
			order = append(order, req.OrderItemID)
		}
		requested[req.OrderItemID] += req.Quantity
	}

	moves := make([]transferMove, 0, len(order))
	for _, id := range order {
		line := byID[id]
		quantity := requested[id]
		if line.PaidQuantity > 0 {
			return nil, apperror.NewConflictError(apperror.CodeOrderPartiallyPaid,
				"Partially paid lines cannot be transferred")
		}
		if quantity > line.Quantity {
			return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount,
				fmt.Sprintf("Transfer quantity %d exceeds available quantity %d", quantity, line.Quantity))
		}
		moves = append(moves, transferMove{line: line, quantity: quantity})
	}
	return moves, nil
}
