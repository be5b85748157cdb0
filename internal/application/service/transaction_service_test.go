package service

import (
	"context"
	"testing"

	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/pkg/apperror"
)

func TestCreateManualTransaction(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	tx, err := f.transaction.CreateTransaction(ctx, &CreateTransactionInput{
		Type:          enum.TransactionTypeExpense,
		Category:      "supplies",
		Amount:        35.50,
		Note:          "cleaning supplies",
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tx.Amount.StringFixed(2); got != "35.50" {
		t.Errorf("amount = %s, want 35.50", got)
	}
	if tx.OrderID != nil {
		t.Error("manual entries must not reference an order")
	}
}

func TestCreateManualTransactionValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	if _, err := f.transaction.CreateTransaction(ctx, &CreateTransactionInput{
		Type:   "refund",
		Amount: 10,
	}); !apperror.HasCode(err, apperror.CodeInvalidTransaction) {
		t.Errorf("expected %s, got %v", apperror.CodeInvalidTransaction, err)
	}

	if _, err := f.transaction.CreateTransaction(ctx, &CreateTransactionInput{
		Type:   enum.TransactionTypeIncome,
		Amount: -5,
	}); !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Errorf("expected %s, got %v", apperror.CodeInvalidAmount, err)
	}
}

func TestReverseFullCheckout(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	table := f.store.addTable(7)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	view := seatTable(t, f, table, OrderLineInput{MenuItemID: pizza.ID, Quantity: 2})
	itemID := view.Batches[0].Items[0].ID

	checkout, err := f.checkout.Checkout(ctx, &CheckoutInput{
		TableID:       table.ID,
		OrderID:       view.Order.ID,
		Mode:          enum.CheckoutModeFull,
		PaymentMethod: enum.PaymentMethodCash,
		Subtotal:      20.00,
		Total:         20.00,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	result, err := f.transaction.ReverseTransaction(ctx, checkout.Transaction.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.ReversedAmount.StringFixed(2); got != "20.00" {
		t.Errorf("reversed amount = %s, want 20.00", got)
	}
	if !result.NewPaidAmount.IsZero() {
		t.Errorf("new paid amount = %s, want 0", result.NewPaidAmount)
	}
	if result.OrderStatus != enum.OrderStatusOpen {
		t.Errorf("order status = %v, want open", result.OrderStatus)
	}
	if result.TableNumber == nil || *result.TableNumber != 7 {
		t.Errorf("table number = %v, want 7", result.TableNumber)
	}

	// The checkout's paid-quantity increase is rolled back exactly.
	if f.store.orderItems[itemID].PaidQuantity != 0 {
		t.Errorf("paid quantity = %d, want 0", f.store.orderItems[itemID].PaidQuantity)
	}
	if _, exists := f.store.transactions[checkout.Transaction.ID]; exists {
		t.Error("reversed transaction must be deleted")
	}

	stored := f.store.tables[table.ID]
	if stored.Status != enum.TableStatusOccupied {
		t.Errorf("table status = %v, want occupied after reopen", stored.Status)
	}
	if got := stored.Amount.StringFixed(2); got != "20.00" {
		t.Errorf("table amount = %s, want 20.00", got)
	}
}

func TestReverseAASplitRestoresPreCheckoutState(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	table := f.store.addTable(1)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	view := seatTable(t, f, table, OrderLineInput{MenuItemID: pizza.ID, Quantity: 2})
	itemID := view.Batches[0].Items[0].ID

	split, err := f.checkout.Checkout(ctx, &CheckoutInput{
		TableID:         table.ID,
		OrderID:         view.Order.ID,
		Mode:            enum.CheckoutModeAA,
		PaymentMethod:   enum.PaymentMethodCard,
		DiscountPercent: 10,
		Subtotal:        10.00,
		Total:           9.00,
		AAItems:         []AAItemRequest{{MenuItemID: pizza.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	result, err := f.transaction.ReverseTransaction(ctx, split.Transaction.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.store.orderItems[itemID].PaidQuantity != 0 {
		t.Errorf("paid quantity = %d, want 0", f.store.orderItems[itemID].PaidQuantity)
	}
	if !result.NewPaidAmount.IsZero() {
		t.Errorf("paid amount = %s, want 0", result.NewPaidAmount)
	}
	if result.OrderStatus != enum.OrderStatusOpen {
		t.Errorf("order status = %v, want open", result.OrderStatus)
	}
	// Both units unpaid again: the table projection returns to the full value.
	if got := f.store.tables[table.ID].Amount.StringFixed(2); got != "20.00" {
		t.Errorf("table amount = %s, want 20.00", got)
	}
}

func TestReverseTransactionGuards(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	t.Run("manual entry has no items", func(t *testing.T) {
		manual, err := f.transaction.CreateTransaction(ctx, &CreateTransactionInput{
			Type:          enum.TransactionTypeIncome,
			Category:      "misc",
			Amount:        5,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.transaction.ReverseTransaction(ctx, manual.ID); !apperror.HasCode(err, apperror.CodeNoTransactionItems) {
			t.Errorf("expected %s, got %v", apperror.CodeNoTransactionItems, err)
		}
	})

	t.Run("expense entry", func(t *testing.T) {
		expense, err := f.transaction.CreateTransaction(ctx, &CreateTransactionInput{
			Type:          enum.TransactionTypeExpense,
			Category:      "supplies",
			Amount:        5,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.transaction.ReverseTransaction(ctx, expense.ID); !apperror.HasCode(err, apperror.CodeInvalidTransaction) {
			t.Errorf("expected %s, got %v", apperror.CodeInvalidTransaction, err)
		}
	})
}

func TestReverseTransactionBlockedByNewerOpenOrder(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	table := f.store.addTable(1)
	pizza := f.store.addMenuItem("Margherita", 10.00)
	view := seatTable(t, f, table, OrderLineInput{MenuItemID: pizza.ID, Quantity: 1})

	checkout, err := f.checkout.Checkout(ctx, &CheckoutInput{
		TableID:       table.ID,
		OrderID:       view.Order.ID,
		Mode:          enum.CheckoutModeFull,
		PaymentMethod: enum.PaymentMethodCash,
		Subtotal:      10.00,
		Total:         10.00,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// New guests are seated at the same table before the reversal runs.
	seatTable(t, f, table, OrderLineInput{MenuItemID: pizza.ID, Quantity: 1})

	_, err = f.transaction.ReverseTransaction(ctx, checkout.Transaction.ID)
	if !apperror.HasCode(err, apperror.CodeTableHasOpenOrder) {
		t.Errorf("expected %s, got %v", apperror.CodeTableHasOpenOrder, err)
	}
}
