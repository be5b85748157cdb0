package money

import (
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing server-computed amounts
// against client-echoed ones. Display layers round independently, so two
// representations of the same settlement may differ by up to one cent.
var Epsilon = decimal.NewFromFloat(0.01)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Round2 rounds an amount to two decimal places, the precision every
// monetary column is stored at.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a caller-supplied float into a two-decimal amount.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// Equal reports whether a and b are the same amount within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// GTE reports whether a >= b - Epsilon.
func GTE(a, b decimal.Decimal) bool {
	return a.GreaterThanOrEqual(b.Sub(Epsilon))
}

// IsZero reports whether the amount is zero within Epsilon.
func IsZero(a decimal.Decimal) bool {
	return a.Abs().LessThanOrEqual(Epsilon)
}

// Percent returns amount * pct/100 rounded to two decimals.
func Percent(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

// Change returns the change owed for a received payment, floored at zero.
func Change(received, total decimal.Decimal) decimal.Decimal {
	change := received.Sub(total).Round(2)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// Lines multiplies a unit price by a quantity.
func Lines(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}
