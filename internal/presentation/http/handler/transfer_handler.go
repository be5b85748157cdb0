package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
)

// TransferHandler handles table transfer HTTP requests
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Transfer moves order lines between tables, splitting them onto an
// empty table or merging them into the target's open order.
// @Summary Transfer order lines
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body request.TransferRequest true "Transfer request"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /transfers [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req request.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.TransferItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.TransferItemInput{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	result, err := h.transferService.Transfer(c.Request.Context(), &service.TransferInput{
		Mode:          enum.TransferMode(req.Mode),
		SourceTableID: req.SourceTableID,
		TargetTableID: req.TargetTableID,
		Items:         items,
		MoveAll:       req.MoveAll,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transfer completed", result)
}
