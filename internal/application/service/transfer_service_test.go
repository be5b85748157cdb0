package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
)

func TestTransferSplit(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	source := f.store.addTable(1)
	target := f.store.addTable(2)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	beer := f.store.addMenuItem("Beer", 4.00)
	view := seatTable(t, f, source,
		OrderLineInput{MenuItemID: pizza.ID, Quantity: 2},
		OrderLineInput{MenuItemID: beer.ID, Quantity: 2},
	)

	var beerLineID = view.Batches[0].Items[0].ID
	if view.Batches[0].Items[0].MenuItemID != beer.ID {
		beerLineID = view.Batches[0].Items[1].ID
	}

	result, err := f.transfer.Transfer(ctx, &TransferInput{
		Mode:          enum.TransferModeSplit,
		SourceTableID: source.ID,
		TargetTableID: target.ID,
		Items:         []TransferItemInput{{OrderItemID: beerLineID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source.Order == nil {
		t.Fatal("source order should survive a partial split")
	}
	if got := result.Source.Order.Subtotal.StringFixed(2); got != "24.00" {
		t.Errorf("source subtotal = %s, want 24.00", got)
	}
	if got := result.Target.Order.Subtotal.StringFixed(2); got != "4.00" {
		t.Errorf("target subtotal = %s, want 4.00", got)
	}
	if got := f.store.tables[source.ID].Amount.StringFixed(2); got != "24.00" {
		t.Errorf("source table amount = %s, want 24.00", got)
	}
	if got := f.store.tables[target.ID].Amount.StringFixed(2); got != "4.00" {
		t.Errorf("target table amount = %s, want 4.00", got)
	}
	if f.store.tables[target.ID].Status != enum.TableStatusOccupied {
		t.Error("target table should become occupied")
	}

	// The moved line keeps its snapshotted price on the target.
	targetItems := result.Target.Batches[0].Items
	if len(targetItems) != 1 || !targetItems[0].UnitPrice.Equal(decimal.NewFromFloat(4.00)) {
		t.Errorf("moved line should carry the source unit price, got %+v", targetItems)
	}
}

func TestTransferMoveAllEmptiesSource(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	source := f.store.addTable(1)
	target := f.store.addTable(2)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	view := seatTable(t, f, source, OrderLineInput{MenuItemID: pizza.ID, Quantity: 2})

	result, err := f.transfer.Transfer(ctx, &TransferInput{
		Mode:          enum.TransferModeMerge,
		SourceTableID: source.ID,
		TargetTableID: target.ID,
		MoveAll:       true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source.Order != nil {
		t.Error("emptied source should report no order")
	}
	if f.store.orders[view.Order.ID].Status != enum.OrderStatusCancelled {
		t.Error("emptied source order should be cancelled")
	}
	stored := f.store.tables[source.ID]
	if stored.Status != enum.TableStatusIdle || !stored.Amount.IsZero() {
		t.Errorf("source table should reset to idle, got %+v", stored)
	}
	if got := result.Target.Order.Subtotal.StringFixed(2); got != "20.00" {
		t.Errorf("target subtotal = %s, want 20.00", got)
	}
}

func TestTransferMergeIntoExistingOrder(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	source := f.store.addTable(1)
	target := f.store.addTable(2)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	beer := f.store.addMenuItem("Beer", 4.00)
	seatTable(t, f, source, OrderLineInput{MenuItemID: pizza.ID, Quantity: 1})
	targetView := seatTable(t, f, target, OrderLineInput{MenuItemID: beer.ID, Quantity: 1})

	result, err := f.transfer.Transfer(ctx, &TransferInput{
		Mode:          enum.TransferModeMerge,
		SourceTableID: source.ID,
		TargetTableID: target.ID,
		MoveAll:       true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Target.Order.ID != targetView.Order.ID {
		t.Error("merge must reuse the target's open order")
	}
	if got := result.Target.Order.Subtotal.StringFixed(2); got != "14.00" {
		t.Errorf("target subtotal = %s, want 14.00", got)
	}
	// Moved lines land in a fresh batch behind the target's own lines.
	if len(result.Target.Batches) != 2 {
		t.Fatalf("expected 2 batches on target, got %d", len(result.Target.Batches))
	}
	if result.Target.Batches[1].BatchNo != 2 {
		t.Errorf("moved batch number = %d, want 2", result.Target.Batches[1].BatchNo)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	source := f.store.addTable(1)
	target := f.store.addTable(2)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	beer := f.store.addMenuItem("Beer", 4.00)
	view := seatTable(t, f, source,
		OrderLineInput{MenuItemID: pizza.ID, Quantity: 2},
		OrderLineInput{MenuItemID: beer.ID, Quantity: 1},
	)

	before := f.store.orders[view.Order.ID]

	var pizzaLineID = view.Batches[0].Items[0].ID
	if view.Batches[0].Items[0].MenuItemID != pizza.ID {
		pizzaLineID = view.Batches[0].Items[1].ID
	}

	out, err := f.transfer.Transfer(ctx, &TransferInput{
		Mode:          enum.TransferModeSplit,
		SourceTableID: source.ID,
		TargetTableID: target.ID,
		Items:         []TransferItemInput{{OrderItemID: pizzaLineID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("transfer out failed: %v", err)
	}

	movedLineID := out.Target.Batches[0].Items[0].ID
	_, err = f.transfer.Transfer(ctx, &TransferInput{
		Mode:          enum.TransferModeSplit,
		SourceTableID: target.ID,
		TargetTableID: source.ID,
		Items:         []TransferItemInput{{OrderItemID: movedLineID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("transfer back failed: %v", err)
	}

	after := f.store.orders[view.Order.ID]
	if !after.Subtotal.Equal(before.Subtotal) || !after.Total.Equal(before.Total) || !after.TotalAmount.Equal(before.TotalAmount) {
		t.Errorf("round trip changed order totals: before %s/%s/%s, after %s/%s/%s",
			before.Subtotal, before.Total, before.TotalAmount,
			after.Subtotal, after.Total, after.TotalAmount)
	}
	if got := f.store.tables[source.ID].Amount.StringFixed(2); got != "24.00" {
		t.Errorf("source table amount = %s, want 24.00", got)
	}

	totalQty := 0
	for _, item := range f.store.orderItems {
		if item.OrderID == view.Order.ID {
			totalQty += item.Quantity
		}
	}
	if totalQty != 3 {
		t.Errorf("source quantity sum = %d, want 3", totalQty)
	}
}

func TestTransferDuplicateLineRequests(t *testing.T) {
	t.Run("combined quantity exceeding the line is rejected", func(t *testing.T) {
		f := newLedgerFixture()
		ctx := context.Background()
		source := f.store.addTable(1)
		target := f.store.addTable(2)
		pizza := f.store.addMenuItem("Margherita", 10.00)
		view := seatTable(t, f, source, OrderLineInput{MenuItemID: pizza.ID, Quantity: 3})
		lineID := view.Batches[0].Items[0].ID

		_, err := f.transfer.Transfer(ctx, &TransferInput{
			Mode:          enum.TransferModeSplit,
			SourceTableID: source.ID,
			TargetTableID: target.ID,
			Items: []TransferItemInput{
				{OrderItemID: lineID, Quantity: 2},
				{OrderItemID: lineID, Quantity: 2},
			},
		})
		if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
			t.Fatalf("expected %s, got %v", apperror.CodeInvalidAmount, err)
		}

		if got := f.store.orderItems[lineID].Quantity; got != 3 {
			t.Errorf("source line quantity = %d, want 3 untouched", got)
		}
		if got := f.store.tables[source.ID].Amount.StringFixed(2); got != "30.00" {
			t.Errorf("source table amount = %s, want 30.00", got)
		}
		if f.store.tables[target.ID].Status != enum.TableStatusIdle {
			t.Error("target table should stay idle after a rejected transfer")
		}
	})

	t.Run("requests within the line merge into one move", func(t *testing.T) {
		f := newLedgerFixture()
		ctx := context.Background()
		source := f.store.addTable(1)
		target := f.store.addTable(2)
		pizza := f.store.addMenuItem("Margherita", 10.00)
		view := seatTable(t, f, source, OrderLineInput{MenuItemID: pizza.ID, Quantity: 3})
		lineID := view.Batches[0].Items[0].ID

		result, err := f.transfer.Transfer(ctx, &TransferInput{
			Mode:          enum.TransferModeSplit,
			SourceTableID: source.ID,
			TargetTableID: target.ID,
			Items: []TransferItemInput{
				{OrderItemID: lineID, Quantity: 1},
				{OrderItemID: lineID, Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := f.store.orderItems[lineID].Quantity; got != 1 {
			t.Errorf("source line quantity = %d, want 1", got)
		}
		targetItems := result.Target.Batches[0].Items
		if len(targetItems) != 1 || targetItems[0].Quantity != 2 {
			t.Errorf("target should hold one merged line of 2 units, got %+v", targetItems)
		}
		if got := f.store.tables[source.ID].Amount.StringFixed(2); got != "10.00" {
			t.Errorf("source table amount = %s, want 10.00", got)
		}
		if got := f.store.tables[target.ID].Amount.StringFixed(2); got != "20.00" {
			t.Errorf("target table amount = %s, want 20.00", got)
		}
	})
}

func TestTransferGuards(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	source := f.store.addTable(1)
	target := f.store.addTable(2)
	pizza := f.store.addMenuItem("Margherita", 10.00)

	t.Run("same table", func(t *testing.T) {
		_, err := f.transfer.Transfer(ctx, &TransferInput{
			Mode:          enum.TransferModeSplit,
			SourceTableID: source.ID,
			TargetTableID: source.ID,
			MoveAll:       true,
		})
		if !apperror.HasCode(err, apperror.CodeSameTable) {
			t.Errorf("expected %s, got %v", apperror.CodeSameTable, err)
		}
	})

	t.Run("no open order", func(t *testing.T) {
		_, err := f.transfer.Transfer(ctx, &TransferInput{
			Mode:          enum.TransferModeSplit,
			SourceTableID: source.ID,
			TargetTableID: target.ID,
			MoveAll:       true,
		})
		if !apperror.HasCode(err, apperror.CodeOrderNotFound) {
			t.Errorf("expected %s, got %v", apperror.CodeOrderNotFound, err)
		}
	})

	t.Run("partially paid source", func(t *testing.T) {
		view := seatTable(t, f, source, OrderLineInput{MenuItemID: pizza.ID, Quantity: 2})
		order := f.store.orders[view.Order.ID]
		order.PaidAmount = decimal.NewFromFloat(10.00)
		f.store.orders[order.ID] = order

		_, err := f.transfer.Transfer(ctx, &TransferInput{
			Mode:          enum.TransferModeSplit,
			SourceTableID: source.ID,
			TargetTableID: target.ID,
			MoveAll:       true,
		})
		if !apperror.HasCode(err, apperror.CodeOrderPartiallyPaid) {
			t.Errorf("expected %s, got %v", apperror.CodeOrderPartiallyPaid, err)
		}
	})
}
