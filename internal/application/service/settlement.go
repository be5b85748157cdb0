package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
)

// SettlementAllocation is one order line's share of a settlement: how many
// previously unpaid units this settlement pays, at the line's snapshotted
// price.
type SettlementAllocation struct {
	OrderItemID uuid.UUID
	MenuItemID  uuid.UUID
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// SettlementPlan is the fully computed outcome of a checkout before any
// state is written. Applying the plan is the only mutation step; planning
// itself never touches storage.
type SettlementPlan struct {
	OutstandingSubtotal decimal.Decimal
	FullSubtotal        decimal.Decimal
	DiscountAmount      decimal.Decimal
	CalculatedTotal     decimal.Decimal
	ReceivedAmount      decimal.Decimal
	ChangeAmount        decimal.Decimal
	Allocations         []SettlementAllocation
}

// SettlementRequest carries the caller-echoed figures every checkout must
// validate against the server's own computation.
type SettlementRequest struct {
	DiscountPercent float64
	ClientSubtotal  float64
	ClientTotal     float64
	ReceivedAmount  *float64
}

// AAItemRequest asks to settle a quantity of one menu item, regardless of
// which batches the units sit in.
type AAItemRequest struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// PlanFullSettlement settles every outstanding unit on every line. The
// caller's subtotal and total must match the server's within one cent and
// the received amount must cover the total; when no received amount is
// given it defaults to the computed total.
func PlanFullSettlement(items []entity.OrderItem, req SettlementRequest) (*SettlementPlan, error) {
	outstanding := decimal.Zero
	full := decimal.Zero
	allocations := make([]SettlementAllocation, 0, len(items))

	for i := range items {
		item := &items[i]
		full = full.Add(money.Lines(item.UnitPrice, item.Quantity))
		unpaid := item.UnpaidQuantity()
		if unpaid <= 0 {
			continue
		}
		outstanding = outstanding.Add(money.Lines(item.UnitPrice, unpaid))
		allocations = append(allocations, SettlementAllocation{
			OrderItemID: item.ID,
			MenuItemID:  item.MenuItemID,
			Name:        item.MenuItem.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    unpaid,
		})
	}

	plan, err := finishPlan(outstanding, req)
	if err != nil {
		return nil, err
	}
	plan.FullSubtotal = money.Round2(full)
	plan.Allocations = allocations
	return plan, nil
}

// PlanAASettlement settles only the requested per-menu-item quantities.
// Requests for the same menu item are merged, validated against the unpaid
// remainder across all of that item's lines, then allocated greedily to
// the earliest unpaid line first. Lines for one menu item may carry
// different snapshotted prices across batches, so the subtotal is summed
// per allocated line, never from a blended price.
func PlanAASettlement(items []entity.OrderItem, requests []AAItemRequest, req SettlementRequest) (*SettlementPlan, error) {
	requested := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		if r.Quantity <= 0 {
			continue
		}
		if _, seen := requested[r.MenuItemID]; !seen {
			order = append(order, r.MenuItemID)
		}
		requested[r.MenuItemID] += r.Quantity
	}
	if len(requested) == 0 {
		return nil, apperror.NewBadRequestError(apperror.CodeOrderEmpty, "No items selected for split settlement")
	}

	available := make(map[uuid.UUID]int)
	full := decimal.Zero
	for i := range items {
		full = full.Add(money.Lines(items[i].UnitPrice, items[i].Quantity))
		available[items[i].MenuItemID] += items[i].UnpaidQuantity()
	}

	for _, menuItemID := range order {
		if requested[menuItemID] > available[menuItemID] {
			return nil, apperror.NewBadRequestError(apperror.CodeAAQuantityExceeds,
				fmt.Sprintf("Requested quantity %d exceeds unpaid quantity %d for item %s",
					requested[menuItemID], available[menuItemID], menuItemID))
		}
	}

	// Lines arrive ordered by batch then creation time, so walking them
	// in order allocates from the earliest unpaid line first.
	aaSubtotal := decimal.Zero
	allocations := make([]SettlementAllocation, 0, len(requests))
	remaining := make(map[uuid.UUID]int, len(requested))
	for id, qty := range requested {
		remaining[id] = qty
	}
	for i := range items {
		item := &items[i]
		want := remaining[item.MenuItemID]
		if want <= 0 {
			continue
		}
		unpaid := item.UnpaidQuantity()
		if unpaid <= 0 {
			continue
		}
		take := want
		if take > unpaid {
			take = unpaid
		}
		remaining[item.MenuItemID] -= take
		aaSubtotal = aaSubtotal.Add(money.Lines(item.UnitPrice, take))
		allocations = append(allocations, SettlementAllocation{
			OrderItemID: item.ID,
			MenuItemID:  item.MenuItemID,
			Name:        item.MenuItem.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    take,
		})
	}

	plan, err := finishPlan(aaSubtotal, req)
	if err != nil {
		return nil, err
	}
	plan.FullSubtotal = money.Round2(full)
	plan.Allocations = allocations
	return plan, nil
}

func finishPlan(subtotal decimal.Decimal, req SettlementRequest) (*SettlementPlan, error) {
	subtotal = money.Round2(subtotal)
	discount := money.Percent(subtotal, decimal.NewFromFloat(req.DiscountPercent))
	total := subtotal.Sub(discount)

	if !money.Equal(subtotal, money.FromFloat(req.ClientSubtotal)) ||
		!money.Equal(total, money.FromFloat(req.ClientTotal)) {
		return nil, apperror.NewConflictError(apperror.CodeTotalMismatch,
			fmt.Sprintf("Submitted totals do not match the current order (expected subtotal %s, total %s)",
				subtotal.StringFixed(2), total.StringFixed(2)))
	}

	received := total
	if req.ReceivedAmount != nil {
		received = money.FromFloat(*req.ReceivedAmount)
	}
	if !money.GTE(received, total) {
		return nil, apperror.NewBadRequestError(apperror.CodeInsufficientReceived,
			fmt.Sprintf("Received amount %s is less than total %s", received.StringFixed(2), total.StringFixed(2)))
	}

	return &SettlementPlan{
		OutstandingSubtotal: subtotal,
		DiscountAmount:      discount,
		CalculatedTotal:     total,
		ReceivedAmount:      received,
		ChangeAmount:        money.Change(received, total),
	}, nil
}

// outstandingSubtotal sums the unpaid value across all lines.
func outstandingSubtotal(items []entity.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].UnpaidValue())
	}
	return money.Round2(sum)
}

// businessDate truncates a timestamp to its local calendar day.
func businessDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
