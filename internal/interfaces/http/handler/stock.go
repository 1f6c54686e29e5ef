package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
)

// StockHandler handles stock unit API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// BulkTransitionRequest moves a batch of units to a target status.
// Units are independent: the response reports per-unit outcomes.
type BulkTransitionRequest struct {
	UnitRefs     []string `json:"unitRefs" binding:"required,min=1"`
	TargetStatus string   `json:"targetStatus" binding:"required"`
}

// Get returns a stock unit with its status log
func (h *StockHandler) Get(c *gin.Context) {
	resp, err := h.stockService.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByStatus lists stock units in the status named by the ?status
// query parameter
func (h *StockHandler) ListByStatus(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	units, total, err := h.stockService.ListByStatus(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, units, filter, total)
}

// BulkTransition applies a status transition to a batch of units
func (h *StockHandler) BulkTransition(c *gin.Context) {
	var req BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	outcomes, err := h.stockService.BulkTransition(c.Request.Context(), req.UnitRefs, req.TargetStatus)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcomes)
}
