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

// OrderHandler handles order ledger HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create adds a batch of lines to a table's open order, creating the
// order first when the table has none.
// @Summary Create or append order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body request.CreateOrderRequest true "Order lines"
// @Success 201 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		})
	}

	input := &service.CreateOrAppendOrderInput{
		TableID:    req.TableID,
		Items:      lines,
		GuestCount: req.GuestCount,
	}
	if req.PaymentMethod != nil {
		method := enum.PaymentMethod(*req.PaymentMethod)
		if !method.Valid() {
			response.BadRequest(c, "Invalid payment method")
			return
		}
		input.PaymentMethod = &method
	}

	view, err := h.orderService.CreateOrAppendOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order saved", view)
}

// GetOpenByTable returns the table's open order with its batch
// breakdown, settled lines omitted. A table with no open order returns
// an empty payload rather than an error: the floor plan polls this.
// @Summary Get open order for table
// @Tags orders
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.APIResponse
// @Router /tables/{id}/order [get]
func (h *OrderHandler) GetOpenByTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	view, err := h.orderService.GetOpenOrder(c.Request.Context(), tableID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if view == nil {
		response.OK(c, "No open order", nil)
		return
	}

	response.OK(c, "Order retrieved", view)
}

// Get returns one order with its batch breakdown
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.APIResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	view, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", view)
}

// List handles order history listing
// @Summary List orders
// @Tags orders
// @Produce json
// @Param status query string false "Filter by status"
// @Param table_id query string false "Filter by table"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
	}

	if req.Status != "" {
		var status enum.OrderStatus
		switch req.Status {
		case "open":
			status = enum.OrderStatusOpen
		case "paid":
			status = enum.OrderStatusPaid
		case "cancelled":
			status = enum.OrderStatusCancelled
		default:
			response.BadRequest(c, "Invalid order status")
			return
		}
		params.Status = &status
	}
	if req.TableID != "" {
		tableID, err := uuid.Parse(req.TableID)
		if err != nil {
			response.BadRequest(c, "Invalid table ID")
			return
		}
		params.TableID = &tableID
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
		// End date is inclusive
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved", result)
}

// UpdateItem mutates one unpaid order line: decrement a unit or remove
// the line.
// @Summary Update order line
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order item ID"
// @Param request body request.UpdateOrderItemRequest true "Update type"
// @Success 200 {object} response.APIResponse
// @Router /order-items/{id} [put]
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order item ID")
		return
	}

	var req request.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.orderService.UpdateOrderItem(c.Request.Context(), id, enum.OrderItemUpdate(req.UpdateType))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order line updated", view)
}

// ClearTable cancels a table's untouched open order and frees the table
// @Summary Clear table order
// @Tags orders
// @Param id path string true "Table ID"
// @Success 204
// @Router /tables/{id}/order [delete]
func (h *OrderHandler) ClearTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	if err := h.orderService.ClearTableOrder(c.Request.Context(), tableID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
