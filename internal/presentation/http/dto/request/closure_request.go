package request

// AdjustmentRequest represents one closure adjustment
type AdjustmentRequest struct {
	Type          string  `json:"type" binding:"required,oneof=fee rounding other"`
	Amount        float64 `json:"amount" binding:"required"`
	Note          string  `json:"note" binding:"required,min=1,max=500"`
	PaymentMethod *string `json:"payment_method"`
}

// ConfirmClosureRequest confirms the current settlement period. The tax
// rate defaults to the configured flat rate when omitted.
type ConfirmClosureRequest struct {
	TaxRate     *float64            `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	Adjustments []AdjustmentRequest `json:"adjustments" binding:"omitempty,dive"`
}
