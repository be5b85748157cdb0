package enum

// PaymentMethod identifies how a settlement was paid.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodQR       PaymentMethod = "qr"
	PaymentMethodPlatform PaymentMethod = "platform"
	PaymentMethodOther    PaymentMethod = "other"
)

// SettlementGroup buckets payment methods for the closure breakdown.
type SettlementGroup string

const (
	SettlementGroupCash       SettlementGroup = "cash"
	SettlementGroupElectronic SettlementGroup = "electronic"
	SettlementGroupPlatform   SettlementGroup = "platform"
	SettlementGroupOther      SettlementGroup = "other"
)

// Group maps a payment method onto its cash-drawer reconciliation bucket.
// Unknown methods land in "other" rather than failing the closure.
func (m PaymentMethod) Group() SettlementGroup {
	switch m {
	case PaymentMethodCash:
		return SettlementGroupCash
	case PaymentMethodCard, PaymentMethodQR:
		return SettlementGroupElectronic
	case PaymentMethodPlatform:
		return SettlementGroupPlatform
	default:
		return SettlementGroupOther
	}
}

// Valid reports whether the value is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQR, PaymentMethodPlatform, PaymentMethodOther:
		return true
	}
	return false
}

// AdjustmentType classifies a post-closure correction.
type AdjustmentType string

const (
	AdjustmentTypeFee      AdjustmentType = "fee"
	AdjustmentTypeRounding AdjustmentType = "rounding"
	AdjustmentTypeOther    AdjustmentType = "other"
)

// Valid reports whether the value is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	return t == AdjustmentTypeFee || t == AdjustmentTypeRounding || t == AdjustmentTypeOther
}
