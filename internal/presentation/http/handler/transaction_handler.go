package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// TransactionHandler handles finance ledger HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create records a manual income or expense entry
// @Summary Create manual transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body request.CreateTransactionRequest true "Transaction data"
// @Success 201 {object} response.APIResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateTransactionInput{
		Type:          enum.TransactionType(req.Type),
		Category:      req.Category,
		Amount:        req.Amount,
		Note:          req.Note,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
	}
	if req.BusinessDate != "" {
		date, err := time.ParseInLocation("2006-01-02", req.BusinessDate, time.Local)
		if err != nil {
			response.BadRequest(c, "Invalid business date")
			return
		}
		input.BusinessDate = &date
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded", tx)
}

// Get returns one transaction with its item details
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved", tx)
}

// List handles ledger listing
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param type query string false "income or expense"
// @Param category query string false "Category"
// @Param order_id query string false "Filter by order"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Category:   req.Category,
	}

	if req.Type != "" {
		txType := enum.TransactionType(req.Type)
		if !txType.Valid() {
			response.BadRequest(c, "Invalid transaction type")
			return
		}
		params.Type = &txType
	}
	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			response.BadRequest(c, "Invalid order ID")
			return
		}
		params.OrderID = &orderID
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date")
			return
		}
		params.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date")
			return
		}
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved", result)
}

// Reverse destroys a settlement transaction and rolls its allocations
// back onto the order, reopening it. Manager only; nothing about this
// is an edit.
// @Summary Reverse transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /transactions/{id}/reverse [post]
func (h *TransactionHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	result, err := h.transactionService.ReverseTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction reversed", result)
}
