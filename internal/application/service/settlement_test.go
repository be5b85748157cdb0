package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
)

func floatPtr(f float64) *float64 { return &f }

func TestPlanFullSettlement(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{
		line(1, 2, 0, 10.00, base),
	}

	plan, err := PlanFullSettlement(items, SettlementRequest{
		ClientSubtotal: 20.00,
		ClientTotal:    20.00,
		ReceivedAmount: floatPtr(25.00),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.CalculatedTotal.StringFixed(2); got != "20.00" {
		t.Errorf("calculated total = %s, want 20.00", got)
	}
	if got := plan.ChangeAmount.StringFixed(2); got != "5.00" {
		t.Errorf("change = %s, want 5.00", got)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].Quantity != 2 {
		t.Fatalf("expected one allocation of 2 units, got %+v", plan.Allocations)
	}
}

func TestPlanFullSettlementSkipsSettledUnits(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{
		line(1, 2, 1, 10.00, base),
		line(1, 1, 1, 5.00, base),
	}

	plan, err := PlanFullSettlement(items, SettlementRequest{
		ClientSubtotal: 10.00,
		ClientTotal:    10.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.OutstandingSubtotal.StringFixed(2); got != "10.00" {
		t.Errorf("outstanding = %s, want 10.00", got)
	}
	if got := plan.FullSubtotal.StringFixed(2); got != "25.00" {
		t.Errorf("full subtotal = %s, want 25.00", got)
	}
	if len(plan.Allocations) != 1 {
		t.Fatalf("expected only the unpaid line allocated, got %d", len(plan.Allocations))
	}
	if plan.Allocations[0].Quantity != 1 {
		t.Errorf("allocation quantity = %d, want 1", plan.Allocations[0].Quantity)
	}
}

func TestPlanFullSettlementDiscount(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{line(1, 2, 0, 10.00, base)}

	plan, err := PlanFullSettlement(items, SettlementRequest{
		DiscountPercent: 10,
		ClientSubtotal:  20.00,
		ClientTotal:     18.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.DiscountAmount.StringFixed(2); got != "2.00" {
		t.Errorf("discount = %s, want 2.00", got)
	}
	if got := plan.CalculatedTotal.StringFixed(2); got != "18.00" {
		t.Errorf("total = %s, want 18.00", got)
	}
	// No received amount defaults to the computed total.
	if got := plan.ReceivedAmount.StringFixed(2); got != "18.00" {
		t.Errorf("received = %s, want 18.00", got)
	}
	if !plan.ChangeAmount.IsZero() {
		t.Errorf("change = %s, want 0", plan.ChangeAmount)
	}
}

func TestPlanFullSettlementErrors(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{line(1, 2, 0, 10.00, base)}

	tests := []struct {
		name     string
		req      SettlementRequest
		wantCode string
	}{
		{
			name:     "stale client subtotal",
			req:      SettlementRequest{ClientSubtotal: 15.00, ClientTotal: 15.00},
			wantCode: apperror.CodeTotalMismatch,
		},
		{
			name:     "stale client total",
			req:      SettlementRequest{ClientSubtotal: 20.00, ClientTotal: 18.00},
			wantCode: apperror.CodeTotalMismatch,
		},
		{
			name:     "insufficient received amount",
			req:      SettlementRequest{ClientSubtotal: 20.00, ClientTotal: 20.00, ReceivedAmount: floatPtr(15.00)},
			wantCode: apperror.CodeInsufficientReceived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanFullSettlement(items, tt.req)
			if !apperror.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestPlanFullSettlementToleratesRounding(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{line(1, 3, 0, 3.33, base)}

	// 9.99 on the server; a client that rounded to 10.00 is within epsilon.
	_, err := PlanFullSettlement(items, SettlementRequest{
		ClientSubtotal: 10.00,
		ClientTotal:    10.00,
	})
	if err != nil {
		t.Fatalf("one-cent rounding should be tolerated, got %v", err)
	}
}

func TestPlanAASettlement(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	menuItemID := uuid.New()

	items := []entity.OrderItem{
		line(1, 2, 0, 10.00, base),
	}
	items[0].MenuItemID = menuItemID

	plan, err := PlanAASettlement(items,
		[]AAItemRequest{{MenuItemID: menuItemID, Quantity: 1}},
		SettlementRequest{DiscountPercent: 10, ClientSubtotal: 10.00, ClientTotal: 9.00},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.OutstandingSubtotal.StringFixed(2); got != "10.00" {
		t.Errorf("aa subtotal = %s, want 10.00", got)
	}
	if got := plan.CalculatedTotal.StringFixed(2); got != "9.00" {
		t.Errorf("aa total = %s, want 9.00", got)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].Quantity != 1 {
		t.Fatalf("expected one allocation of 1 unit, got %+v", plan.Allocations)
	}
}

func TestPlanAASettlementOldestBatchFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	menuItemID := uuid.New()

	// Same dish in two batches at different snapshotted prices.
	older := line(1, 2, 0, 10.00, base)
	older.MenuItemID = menuItemID
	newer := line(2, 2, 0, 12.00, base.Add(30*time.Minute))
	newer.MenuItemID = menuItemID
	items := []entity.OrderItem{older, newer}

	plan, err := PlanAASettlement(items,
		[]AAItemRequest{{MenuItemID: menuItemID, Quantity: 3}},
		SettlementRequest{ClientSubtotal: 32.00, ClientTotal: 32.00},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 units at 10.00 from the older batch, 1 unit at 12.00 from the newer.
	if got := plan.OutstandingSubtotal.StringFixed(2); got != "32.00" {
		t.Errorf("aa subtotal = %s, want 32.00", got)
	}
	if len(plan.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(plan.Allocations))
	}
	if plan.Allocations[0].OrderItemID != older.ID || plan.Allocations[0].Quantity != 2 {
		t.Errorf("first allocation should drain the older line: %+v", plan.Allocations[0])
	}
	if plan.Allocations[1].OrderItemID != newer.ID || plan.Allocations[1].Quantity != 1 {
		t.Errorf("second allocation should take from the newer line: %+v", plan.Allocations[1])
	}
}

func TestPlanAASettlementMergesDuplicateRequests(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	menuItemID := uuid.New()
	item := line(1, 3, 0, 5.00, base)
	item.MenuItemID = menuItemID

	plan, err := PlanAASettlement([]entity.OrderItem{item},
		[]AAItemRequest{
			{MenuItemID: menuItemID, Quantity: 1},
			{MenuItemID: menuItemID, Quantity: 2},
		},
		SettlementRequest{ClientSubtotal: 15.00, ClientTotal: 15.00},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].Quantity != 3 {
		t.Fatalf("expected merged allocation of 3 units, got %+v", plan.Allocations)
	}
}

func TestPlanAASettlementQuantityExceeds(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	menuItemID := uuid.New()
	item := line(1, 2, 1, 10.00, base)
	item.MenuItemID = menuItemID

	_, err := PlanAASettlement([]entity.OrderItem{item},
		[]AAItemRequest{{MenuItemID: menuItemID, Quantity: 2}},
		SettlementRequest{ClientSubtotal: 20.00, ClientTotal: 20.00},
	)
	if !apperror.HasCode(err, apperror.CodeAAQuantityExceeds) {
		t.Errorf("expected %s, got %v", apperror.CodeAAQuantityExceeds, err)
	}
}

func TestPlanAASettlementNoItems(t *testing.T) {
	base := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	items := []entity.OrderItem{line(1, 2, 0, 10.00, base)}

	_, err := PlanAASettlement(items, nil, SettlementRequest{})
	if !apperror.HasCode(err, apperror.CodeOrderEmpty) {
		t.Errorf("expected %s, got %v", apperror.CodeOrderEmpty, err)
	}
}
