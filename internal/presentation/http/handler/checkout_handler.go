package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles settlement HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	printerService  *service.PrinterService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, printerService *service.PrinterService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		printerService:  printerService,
	}
}

// Checkout settles an open order, in full or as an itemized split.
// Receipt printing is best effort; a dead printer never fails a
// settlement that already committed.
// @Summary Checkout
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body request.CheckoutRequest true "Settlement request"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.AAItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.AAItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), &service.CheckoutInput{
		TableID:         req.TableID,
		OrderID:         req.OrderID,
		Mode:            enum.CheckoutMode(req.Mode),
		PaymentMethod:   enum.PaymentMethod(req.PaymentMethod),
		DiscountPercent: req.DiscountPercent,
		Subtotal:        req.Subtotal,
		Total:           req.Total,
		ReceivedAmount:  req.ReceivedAmount,
		AAItems:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	printed := false
	if h.printerService != nil && h.printerService.IsConnected() && result.Transaction != nil {
		printed = h.printerService.PrintSettlementReceipt(c.Request.Context(), result.Transaction.ID) == nil
	}

	response.OK(c, "Order settled", gin.H{
		"order":           result.Order,
		"batches":         result.Batches,
		"transaction":     result.Transaction,
		"table":           result.Table,
		"mode":            result.Mode,
		"received_amount": result.ReceivedAmount,
		"change_amount":   result.ChangeAmount,
		"receipt_printed": printed,
	})
}
