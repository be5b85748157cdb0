package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
)

// ReportHandler handles revenue report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Revenue returns income, expense and net totals per business day over
// a date range.
// @Summary Revenue report
// @Tags reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetRevenueReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Revenue report", report)
}

// Payments returns income totals grouped by payment method over a date
// range.
// @Summary Payment breakdown
// @Tags reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /reports/payments [get]
func (h *ReportHandler) Payments(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.PaymentBreakdown(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment breakdown", rows)
}

// bindDateRange parses the start_date and end_date query parameters,
// widening end_date to the end of its day.
func bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var req request.RevenueReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "start_date and end_date are required (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}

	from, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid start date")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid end date")
		return time.Time{}, time.Time{}, false
	}
	to = to.AddDate(0, 0, 1)

	return from, to, true
}
