package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/domain/enum"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
	"github.com/tavolo-pos/tavolo-api/pkg/pagination"
)

// ClosureHandler handles daily closure HTTP requests
type ClosureHandler struct {
	closureService *service.ClosureService
	printerService *service.PrinterService
}

// NewClosureHandler creates a new closure handler
func NewClosureHandler(closureService *service.ClosureService, printerService *service.PrinterService) *ClosureHandler {
	return &ClosureHandler{
		closureService: closureService,
		printerService: printerService,
	}
}

// Preview returns a live, unlocked snapshot of the current settlement
// period. Nothing is written; the figures move until confirmation.
// @Summary Preview current closure
// @Tags closures
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /closures/preview [get]
func (h *ClosureHandler) Preview(c *gin.Context) {
	snapshot, err := h.closureService.GetCurrentPreview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Closure preview", snapshot)
}

// Confirm locks the current period into an immutable closure record and
// opens the next one. Manager only.
// @Summary Confirm daily closure
// @Tags closures
// @Accept json
// @Produce json
// @Param request body request.ConfirmClosureRequest true "Confirmation"
// @Success 201 {object} response.APIResponse
// @Router /closures [post]
func (h *ClosureHandler) Confirm(c *gin.Context) {
	var req request.ConfirmClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.ConfirmClosureInput{TaxRate: req.TaxRate}
	for _, adj := range req.Adjustments {
		adjInput := service.AdjustmentInput{
			Type:   enum.AdjustmentType(adj.Type),
			Amount: adj.Amount,
			Note:   adj.Note,
		}
		if adj.PaymentMethod != nil {
			method := enum.PaymentMethod(*adj.PaymentMethod)
			if !method.Valid() {
				response.BadRequest(c, "Invalid payment method")
				return
			}
			adjInput.PaymentMethod = &method
		}
		input.Adjustments = append(input.Adjustments, adjInput)
	}

	snapshot, err := h.closureService.ConfirmDailyClosure(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	printed := false
	if h.printerService != nil && h.printerService.IsConnected() {
		printed = h.printerService.PrintClosureReport(snapshot) == nil
	}

	response.Created(c, "Closure confirmed", gin.H{
		"closure":        snapshot,
		"report_printed": printed,
	})
}

// Get returns one confirmed closure
// @Summary Get closure
// @Tags closures
// @Produce json
// @Param id path string true "Closure ID"
// @Success 200 {object} response.APIResponse
// @Router /closures/{id} [get]
func (h *ClosureHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid closure ID")
		return
	}

	snapshot, err := h.closureService.GetClosure(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Closure retrieved", snapshot)
}

// List handles closure history listing
// @Summary List closures
// @Tags closures
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /closures [get]
func (h *ClosureHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.closureService.ListClosures(c.Request.Context(), &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Closures retrieved", result)
}

// AddAdjustment appends a correction to a confirmed closure. The
// captured figures stay untouched; adjustments layer on top.
// @Summary Add closure adjustment
// @Tags closures
// @Accept json
// @Produce json
// @Param id path string true "Closure ID"
// @Param request body request.AdjustmentRequest true "Adjustment"
// @Success 201 {object} response.APIResponse
// @Router /closures/{id}/adjustments [post]
func (h *ClosureHandler) AddAdjustment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid closure ID")
		return
	}

	var req request.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.AdjustmentInput{
		Type:   enum.AdjustmentType(req.Type),
		Amount: req.Amount,
		Note:   req.Note,
	}
	if req.PaymentMethod != nil {
		method := enum.PaymentMethod(*req.PaymentMethod)
		if !method.Valid() {
			response.BadRequest(c, "Invalid payment method")
			return
		}
		input.PaymentMethod = &method
	}

	adjustment, err := h.closureService.AddAdjustment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Adjustment recorded", adjustment)
}
