package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with an HTTP status code and a
// stable machine-readable code consumed by API clients.
type AppError struct {
	Code    int          `json:"code"`
	ErrCode string       `json:"error_code,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Machine-readable error codes for the ledger core. Clients key their
// user-facing messages off these, never off Message.
const (
	CodeTableNotFound        = "TABLE_NOT_FOUND"
	CodeOrderNotFound        = "ORDER_NOT_FOUND"
	CodeOrderItemNotFound    = "ORDER_ITEM_NOT_FOUND"
	CodeMenuItemNotFound     = "MENU_ITEM_NOT_FOUND"
	CodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	CodeClosureNotFound      = "CLOSURE_NOT_FOUND"
	CodeOrderEmpty           = "ORDER_EMPTY"
	CodeOrderNotOpen         = "ORDER_NOT_OPEN"
	CodeTotalMismatch        = "TOTAL_MISMATCH"
	CodeInsufficientReceived = "INSUFFICIENT_RECEIVED_AMOUNT"
	CodeAAQuantityExceeds    = "AA_QUANTITY_EXCEEDS_ORDER"
	CodeItemAlreadyPaid      = "ITEM_ALREADY_PAID"
	CodeOrderPartiallyPaid   = "ORDER_PARTIALLY_PAID"
	CodeTableHasOpenOrder    = "TABLE_HAS_OPEN_ORDER"
	CodeInvalidTransaction   = "INVALID_TRANSACTION_TYPE"
	CodeInvalidUpdateType    = "INVALID_UPDATE_TYPE"
	CodeInvalidCheckoutMode  = "INVALID_CHECKOUT_MODE"
	CodeInvalidTransferMode  = "INVALID_TRANSFER_MODE"
	CodeNoTransactionItems   = "NO_TRANSACTION_ITEMS"
	CodeNoOrderID            = "NO_ORDER_ID"
	CodeSameTable            = "SAME_TABLE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeEmailTaken           = "EMAIL_TAKEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
)

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Conflict"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, ErrCode: CodeInvalidCredentials, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a machine code
func NewNotFoundError(errCode, resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		ErrCode: errCode,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a machine code
func NewConflictError(errCode, message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		ErrCode: errCode,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a machine code
func NewBadRequestError(errCode, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		ErrCode: errCode,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode reports whether err is an AppError carrying the given machine code.
func HasCode(err error, errCode string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ErrCode == errCode
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
