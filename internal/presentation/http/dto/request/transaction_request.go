package request

// CreateTransactionRequest represents a manual income or expense entry
type CreateTransactionRequest struct {
	Type          string  `json:"type" binding:"required,oneof=income expense"`
	Category      string  `json:"category" binding:"required,min=1,max=100"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Note          string  `json:"note" binding:"omitempty,max=500"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	BusinessDate  string  `json:"business_date" binding:"omitempty,datetime=2006-01-02"`
}

// TransactionFilterRequest represents ledger listing filter parameters
type TransactionFilterRequest struct {
	Type      string `form:"type"`
	Category  string `form:"category"`
	OrderID   string `form:"order_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
