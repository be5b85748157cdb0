package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/request"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/dto/response"
)

// TableHandler handles dining table HTTP requests
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// Create handles table creation
// @Summary Create table
// @Tags tables
// @Accept json
// @Produce json
// @Param request body request.CreateTableRequest true "Table data"
// @Success 201 {object} response.APIResponse
// @Router /tables [post]
func (h *TableHandler) Create(c *gin.Context) {
	var req request.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), &service.CreateTableInput{
		Number: req.Number,
		Area:   req.Area,
		Seats:  req.Seats,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Table created", table)
}

// List returns the floor map: every table with its live status and
// running amount.
// @Summary List tables
// @Tags tables
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /tables [get]
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tables retrieved", tables)
}

// Get returns one table
// @Summary Get table
// @Tags tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.APIResponse
// @Router /tables/{id} [get]
func (h *TableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table retrieved", table)
}

// Update handles table updates
// @Summary Update table
// @Tags tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body request.UpdateTableRequest true "Table data"
// @Success 200 {object} response.APIResponse
// @Router /tables/{id} [put]
func (h *TableHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	var req request.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	table, err := h.tableService.UpdateTable(c.Request.Context(), id, &service.UpdateTableInput{
		Number: req.Number,
		Area:   req.Area,
		Seats:  req.Seats,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table updated", table)
}

// Delete handles table deletion
// @Summary Delete table
// @Tags tables
// @Param id path string true "Table ID"
// @Success 204
// @Router /tables/{id} [delete]
func (h *TableHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid table ID")
		return
	}

	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
