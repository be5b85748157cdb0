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
)

// CheckoutService settles open orders, in full or as itemized splits, and
// records the resulting income transactions.
type CheckoutService struct {
	txManager       repository.TxManager
	tableRepo       repository.TableRepository
	orderRepo       repository.OrderRepository
	orderItemRepo   repository.OrderItemRepository
	transactionRepo repository.TransactionRepository
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	txManager repository.TxManager,
	tableRepo repository.TableRepository,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	transactionRepo repository.TransactionRepository,
) *CheckoutService {
	return &CheckoutService{
		txManager:       txManager,
		tableRepo:       tableRepo,
		orderRepo:       orderRepo,
		orderItemRepo:   orderItemRepo,
		transactionRepo: transactionRepo,
	}
}

// CheckoutInput represents a settlement request against an open order.
// Subtotal and Total are the figures the client displayed; the server
// recomputes both and rejects the call when they diverge beyond one cent.
type CheckoutInput struct {
	TableID         uuid.UUID
	OrderID         uuid.UUID
	Mode            enum.CheckoutMode
	PaymentMethod   enum.PaymentMethod
	DiscountPercent float64
	Subtotal        float64
	Total           float64
	ReceivedAmount  *float64
	AAItems         []AAItemRequest
}

// CheckoutResult is the externally observable outcome of a settlement.
type CheckoutResult struct {
	Order          *entity.Order       `json:"order"`
	Batches        []OrderBatch        `json:"batches"`
	Transaction    *entity.Transaction `json:"transaction"`
	Table          *entity.DiningTable `json:"table"`
	Mode           enum.CheckoutMode   `json:"mode"`
	ReceivedAmount decimal.Decimal     `json:"received_amount"`
	ChangeAmount   decimal.Decimal     `json:"change_amount"`
}

// Checkout settles the order in one transaction: plan the settlement from
// the current lines, apply the paid-quantity deltas, update order and
// table projections, and emit one income transaction with a per-line
// settlement record.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if !input.Mode.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidCheckoutMode, "Checkout mode must be full or aa")
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Unknown payment method")
	}

	var result *CheckoutResult
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError(apperror.CodeOrderNotFound, "Order")
		}
		if order.Status != enum.OrderStatusOpen {
			return apperror.NewConflictError(apperror.CodeOrderNotOpen, "Order is not open")
		}

		items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperror.NewBadRequestError(apperror.CodeOrderEmpty, "Order has no items")
		}

		req := SettlementRequest{
			DiscountPercent: input.DiscountPercent,
			ClientSubtotal:  input.Subtotal,
			ClientTotal:     input.Total,
			ReceivedAmount:  input.ReceivedAmount,
		}

		var plan *SettlementPlan
		switch input.Mode {
		case enum.CheckoutModeFull:
			plan, err = PlanFullSettlement(items, req)
		case enum.CheckoutModeAA:
			plan, err = PlanAASettlement(items, input.AAItems, req)
		}
		if err != nil {
			return err
		}

		if err := s.applyAllocations(ctx, items, plan.Allocations); err != nil {
			return err
		}

		// Re-read so the remaining-outstanding decision sees the
		// post-allocation line state.
		items, err = s.orderItemRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		remaining := outstandingSubtotal(items)
		settled := money.IsZero(remaining)

		now := time.Now()
		order.PaymentMethod = input.PaymentMethod
		order.Subtotal = plan.FullSubtotal
		order.Discount = money.Round2(order.Discount.Add(plan.DiscountAmount))
		order.PaidAmount = money.Round2(order.PaidAmount.Add(plan.CalculatedTotal))
		order.Total = order.PaidAmount
		if order.TotalAmount.LessThanOrEqual(decimal.Zero) {
			order.TotalAmount = plan.FullSubtotal
		}
		if settled {
			order.Status = enum.OrderStatusPaid
			order.ClosedAt = &now
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		tx := &entity.Transaction{
			Type:          enum.TransactionTypeIncome,
			Category:      "order",
			Amount:        plan.CalculatedTotal,
			PaymentMethod: input.PaymentMethod,
			OrderID:       &order.ID,
			BusinessDate:  businessDate(now),
		}
		for _, alloc := range plan.Allocations {
			tx.Items = append(tx.Items, entity.TransactionItem{
				OrderItemID: alloc.OrderItemID,
				MenuItemID:  alloc.MenuItemID,
				Name:        alloc.Name,
				UnitPrice:   alloc.UnitPrice,
				Quantity:    alloc.Quantity,
			})
		}
		if err := s.transactionRepo.Create(ctx, tx); err != nil {
			return err
		}

		var table *entity.DiningTable
		if order.TableID != nil {
			table, err = s.tableRepo.GetByID(ctx, *order.TableID)
			if err != nil {
				return err
			}
		}
		if table != nil {
			if settled {
				table.Status = enum.TableStatusIdle
				table.Amount = decimal.Zero
				table.GuestCount = 0
				table.SeatedAt = nil
			} else {
				table.Status = enum.TableStatusOccupied
				table.Amount = remaining
			}
			if err := s.tableRepo.Update(ctx, table); err != nil {
				return err
			}
		}

		result = &CheckoutResult{
			Order:          order,
			Batches:        BuildBatches(items, true),
			Transaction:    tx,
			Table:          table,
			Mode:           input.Mode,
			ReceivedAmount: plan.ReceivedAmount,
			ChangeAmount:   plan.ChangeAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyAllocations writes each allocation's paid-quantity delta back to
// its line. The planner already bounds every allocation, so exceeding a
// line's quantity here means the order changed underneath us.
func (s *CheckoutService) applyAllocations(ctx context.Context, items []entity.OrderItem, allocations []SettlementAllocation) error {
	byID := make(map[uuid.UUID]*entity.OrderItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, alloc := range allocations {
		item, ok := byID[alloc.OrderItemID]
		if !ok {
			return apperror.NewNotFoundError(apperror.CodeOrderItemNotFound, "Order item")
		}
		if item.PaidQuantity+alloc.Quantity > item.Quantity {
			return apperror.NewConflictError(apperror.CodeItemAlreadyPaid,
				"Settlement would exceed the line's ordered quantity")
		}
		item.PaidQuantity += alloc.Quantity
		if err := s.orderItemRepo.Update(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
