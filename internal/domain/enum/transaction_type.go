package enum

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the value is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// CheckoutMode selects between a full settlement and an itemized split.
type CheckoutMode string

const (
	CheckoutModeFull CheckoutMode = "full"
	CheckoutModeAA   CheckoutMode = "aa"
)

// Valid reports whether the value is a known checkout mode.
func (m CheckoutMode) Valid() bool {
	return m == CheckoutModeFull || m == CheckoutModeAA
}

// TransferMode selects between splitting an order off a table and merging
// it into another table's order.
type TransferMode string

const (
	TransferModeSplit TransferMode = "split"
	TransferModeMerge TransferMode = "merge"
)

// Valid reports whether the value is a known transfer mode.
func (m TransferMode) Valid() bool {
	return m == TransferModeSplit || m == TransferModeMerge
}

// OrderItemUpdate names the two permitted mutations on an unpaid line.
type OrderItemUpdate string

const (
	OrderItemDecrement OrderItemUpdate = "decrement"
	OrderItemRemove    OrderItemUpdate = "remove"
)

// Valid reports whether the value is a known line mutation.
func (u OrderItemUpdate) Valid() bool {
	return u == OrderItemDecrement || u == OrderItemRemove
}
