package request

// CreateTableRequest represents a table creation request
type CreateTableRequest struct {
	Number int    `json:"number" binding:"required,min=1"`
	Area   string `json:"area" binding:"omitempty,max=100"`
	Seats  int    `json:"seats" binding:"omitempty,min=1,max=50"`
}

// UpdateTableRequest represents a table update request. Status, amount
// and guest count are derived from the table's orders and cannot be set.
type UpdateTableRequest struct {
	Number *int    `json:"number" binding:"omitempty,min=1"`
	Area   *string `json:"area" binding:"omitempty,max=100"`
	Seats  *int    `json:"seats" binding:"omitempty,min=1,max=50"`
}
