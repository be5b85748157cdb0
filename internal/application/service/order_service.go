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

// OrderService maintains the order ledger: opening orders, appending item
// batches, mutating unpaid lines, and clearing unsettled tables.
type OrderService struct {
	txManager     repository.TxManager
	tableRepo     repository.TableRepository
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	menuItemRepo  repository.MenuItemRepository
}

// NewOrderService creates a new order service
func NewOrderService(
	txManager repository.TxManager,
	tableRepo repository.TableRepository,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	menuItemRepo repository.MenuItemRepository,
) *OrderService {
	return &OrderService{
		txManager:     txManager,
		tableRepo:     tableRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		menuItemRepo:  menuItemRepo,
	}
}

// OrderLineInput is one requested line in an incoming batch.
type OrderLineInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	Notes      string
}

// CreateOrAppendOrderInput represents the create-or-append input
type CreateOrAppendOrderInput struct {
	TableID       uuid.UUID
	Items         []OrderLineInput
	PaymentMethod *enum.PaymentMethod
	GuestCount    *int
}

// OrderView is an order together with its batch breakdown.
type OrderView struct {
	Order   *entity.Order `json:"order"`
	Batches []OrderBatch  `json:"batches"`
}

// CreateOrAppendOrder adds a batch of items to the table's open order,
// creating the order first when the table has none. Unit prices come from
// the menu catalog at call time, never from the caller. All new lines
// share one fresh batch number.
func (s *OrderService) CreateOrAppendOrder(ctx context.Context, input *CreateOrAppendOrderInput) (*OrderView, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError(apperror.CodeOrderEmpty, "Order must contain at least one item")
	}

	var view *OrderView
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		table, err := s.tableRepo.GetByID(ctx, input.TableID)
		if err != nil {
			return err
		}
		if table == nil {
			return apperror.NewNotFoundError(apperror.CodeTableNotFound, "Table")
		}

		menuItems, err := s.resolveMenuItems(ctx, input.Items)
		if err != nil {
			return err
		}

		batchSubtotal := decimal.Zero
		for _, line := range input.Items {
			batchSubtotal = batchSubtotal.Add(money.Lines(menuItems[line.MenuItemID].Price, line.Quantity))
		}
		batchSubtotal = money.Round2(batchSubtotal)

		order, err := s.orderRepo.GetOpenByTableID(ctx, input.TableID)
		if err != nil {
			return err
		}

		if order == nil {
			order = &entity.Order{
				TableID:     &table.ID,
				Status:      enum.OrderStatusOpen,
				Subtotal:    batchSubtotal,
				Discount:    decimal.Zero,
				Total:       batchSubtotal,
				TotalAmount: batchSubtotal,
				PaidAmount:  decimal.Zero,
			}
			if input.PaymentMethod != nil {
				order.PaymentMethod = *input.PaymentMethod
			}
			if input.GuestCount != nil {
				order.GuestCount = *input.GuestCount
			}
			if err := s.orderRepo.Create(ctx, order); err != nil {
				return err
			}
		} else {
			order.Subtotal = money.Round2(order.Subtotal.Add(batchSubtotal))
			order.TotalAmount = money.Round2(order.TotalAmount.Add(batchSubtotal))
			order.Total = money.Round2(order.Subtotal.Sub(order.Discount))
			if input.PaymentMethod != nil {
				order.PaymentMethod = *input.PaymentMethod
			}
			if input.GuestCount != nil {
				order.GuestCount = *input.GuestCount
			}
			if err := s.orderRepo.Update(ctx, order); err != nil {
				return err
			}
		}

		maxBatch, err := s.orderItemRepo.MaxBatchNo(ctx, order.ID)
		if err != nil {
			return err
		}
		batchNo := maxBatch + 1

		newLines := make([]entity.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			newLines = append(newLines, entity.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  menuItems[line.MenuItemID].Price,
				Notes:      line.Notes,
				BatchNo:    batchNo,
			})
		}
		if err := s.orderItemRepo.CreateBatch(ctx, newLines); err != nil {
			return err
		}

		if err := s.occupyTable(ctx, table, order, input.GuestCount); err != nil {
			return err
		}

		items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		view = &OrderView{Order: order, Batches: BuildBatches(items, false)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetOpenOrder returns the table's open order with fully settled lines
// omitted from the batch view, or nil when the table is idle.
func (s *OrderService) GetOpenOrder(ctx context.Context, tableID uuid.UUID) (*OrderView, error) {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeTableNotFound, "Table")
	}

	order, err := s.orderRepo.GetOpenByTableID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: order, Batches: BuildBatches(items, true)}, nil
}

// GetOrder returns any order by id with its full batch view.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError(apperror.CodeOrderNotFound, "Order")
	}
	items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: order, Batches: BuildBatches(items, false)}, nil
}

// ListOrders returns the order history page described by the filters.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &pagination.PaginatedResult[entity.Order]{
		Items:      orders,
		Pagination: pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	}, nil
}

// UpdateOrderItem decrements or removes one unpaid line and keeps the
// order and table projections in step. Settled units are immutable, so a
// line can never shrink below its paid quantity and a partially paid line
// cannot be removed.
func (s *OrderService) UpdateOrderItem(ctx context.Context, orderItemID uuid.UUID, updateType enum.OrderItemUpdate) (*OrderView, error) {
	if !updateType.Valid() {
		return nil, apperror.NewBadRequestError(apperror.CodeInvalidUpdateType, "Update type must be decrement or remove")
	}

	var view *OrderView
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		item, err := s.orderItemRepo.GetByID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError(apperror.CodeOrderItemNotFound, "Order item")
		}

		order, err := s.orderRepo.GetByID(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError(apperror.CodeOrderNotFound, "Order")
		}
		if order.Status != enum.OrderStatusOpen {
			return apperror.NewConflictError(apperror.CodeOrderNotOpen, "Order is not open")
		}
		if item.UnpaidQuantity() <= 0 {
			return apperror.NewConflictError(apperror.CodeItemAlreadyPaid, "Item is already fully paid")
		}

		var removedValue decimal.Decimal
		switch updateType {
		case enum.OrderItemDecrement:
			if item.Quantity-1 < item.PaidQuantity {
				return apperror.NewConflictError(apperror.CodeItemAlreadyPaid,
					"Cannot decrement below the paid quantity")
			}
			item.Quantity--
			removedValue = item.UnitPrice
			if item.Quantity == 0 {
				if err := s.orderItemRepo.Delete(ctx, item.ID); err != nil {
					return err
				}
			} else if err := s.orderItemRepo.Update(ctx, item); err != nil {
				return err
			}
		case enum.OrderItemRemove:
			if item.PaidQuantity > 0 {
				return apperror.NewConflictError(apperror.CodeOrderPartiallyPaid,
					"Partially paid items cannot be removed")
			}
			removedValue = money.Lines(item.UnitPrice, item.Quantity)
			if err := s.orderItemRepo.Delete(ctx, item.ID); err != nil {
				return err
			}
		}

		order.Subtotal = money.Round2(order.Subtotal.Sub(removedValue))
		if order.Subtotal.IsNegative() {
			order.Subtotal = decimal.Zero
		}
		order.TotalAmount = money.Round2(order.TotalAmount.Sub(removedValue))
		if order.TotalAmount.IsNegative() {
			order.TotalAmount = decimal.Zero
		}
		order.Total = money.Round2(order.Subtotal.Sub(order.Discount))
		if order.Total.IsNegative() {
			order.Total = decimal.Zero
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if order.TableID != nil {
			if err := s.refreshTableAmount(ctx, *order.TableID, items); err != nil {
				return err
			}
		}

		view = &OrderView{Order: order, Batches: BuildBatches(items, true)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ClearTableOrder cancels a table's open order when nothing on it has been
// paid and resets the table to idle. The lines stay on the cancelled order
// for the history views.
func (s *OrderService) ClearTableOrder(ctx context.Context, tableID uuid.UUID) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		table, err := s.tableRepo.GetByID(ctx, tableID)
		if err != nil {
			return err
		}
		if table == nil {
			return apperror.NewNotFoundError(apperror.CodeTableNotFound, "Table")
		}

		order, err := s.orderRepo.GetOpenByTableID(ctx, tableID)
		if err != nil {
			return err
		}
		if order != nil {
			if order.PaidAmount.GreaterThan(money.Epsilon) {
				return apperror.NewConflictError(apperror.CodeOrderPartiallyPaid,
					"Order has settled payments and cannot be cleared")
			}
			now := time.Now()
			order.Status = enum.OrderStatusCancelled
			order.ClosedAt = &now
			if err := s.orderRepo.Update(ctx, order); err != nil {
				return err
			}
		}

		return s.resetTable(ctx, table)
	})
}

func (s *OrderService) resolveMenuItems(ctx context.Context, lines []OrderLineInput) (map[uuid.UUID]entity.MenuItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewBadRequestError(apperror.CodeInvalidAmount, "Item quantity must be positive")
		}
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	menuItems, err := s.menuItemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]entity.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperror.NewNotFoundError(apperror.CodeMenuItemNotFound, "Menu item")
		}
	}
	return byID, nil
}

func (s *OrderService) occupyTable(ctx context.Context, table *entity.DiningTable, order *entity.Order, guestCount *int) error {
	items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	table.Status = enum.TableStatusOccupied
	table.Amount = outstandingSubtotal(items)
	if guestCount != nil {
		table.GuestCount = *guestCount
	} else if table.GuestCount == 0 {
		table.GuestCount = order.GuestCount
	}
	if table.SeatedAt == nil {
		now := time.Now()
		table.SeatedAt = &now
	}
	return s.tableRepo.Update(ctx, table)
}

// refreshTableAmount re-derives the table's outstanding amount from the
// order's complete remaining line set.
func (s *OrderService) refreshTableAmount(ctx context.Context, tableID uuid.UUID, items []entity.OrderItem) error {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return err
	}
	if table == nil {
		return nil
	}
	table.Amount = outstandingSubtotal(items)
	return s.tableRepo.Update(ctx, table)
}

func (s *OrderService) resetTable(ctx context.Context, table *entity.DiningTable) error {
	table.Status = enum.TableStatusIdle
	table.Amount = decimal.Zero
	table.GuestCount = 0
	table.SeatedAt = nil
	return s.tableRepo.Update(ctx, table)
}
