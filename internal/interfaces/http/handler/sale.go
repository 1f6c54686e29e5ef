package handler

import (
	"github.com/gin-gonic/gin"
	saleapp "github.com/retailpos/backend/internal/application/sale"
)

// SaleHandler handles sale lifecycle API endpoints
type SaleHandler struct {
	BaseHandler
	saleService     *saleapp.SaleService
	exchangeService *saleapp.ExchangeService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *saleapp.SaleService, exchangeService *saleapp.ExchangeService) *SaleHandler {
	return &SaleHandler{
		saleService:     saleService,
		exchangeService: exchangeService,
	}
}

// AddStockItemRequest rings up one stock unit by any of its identifiers
type AddStockItemRequest struct {
	UnitRef string `json:"unitRef" binding:"required"`
}

// AddNonStockItemRequest adds a free-form line to the sale
type AddNonStockItemRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=200"`
	UnitPrice float64 `json:"unitPrice" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

// SetDiscountRequest sets an absolute discount percent on a line
type SetDiscountRequest struct {
	Percent float64 `json:"percent" binding:"min=0,max=100"`
}

// AdjustDiscountRequest nudges a line's discount percent by a delta
type AdjustDiscountRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

// SetQuantityRequest changes a non-stock line's quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SetOfferRequest toggles offer pricing on a line
type SetOfferRequest struct {
	Active bool `json:"active"`
}

// SetCustomerRequest attaches a customer; empty ID means walk-in
type SetCustomerRequest struct {
	CustomerID string `json:"customerId" binding:"omitempty,uuid"`
	Name       string `json:"name" binding:"max=200"`
}

// CheckoutRequest settles the sale with one or more payments
type CheckoutRequest struct {
	Payments []PaymentInput `json:"payments" binding:"required,min=1,dive"`
}

// PaymentInput is one payment recorded at checkout
type PaymentInput struct {
	Method string  `json:"method" binding:"required,min=1,max=30"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// AttachReturnRequest attaches selected return units from a prior sale
type AttachReturnRequest struct {
	SourceRef  string                 `json:"sourceRef" binding:"required"`
	Selections []ReturnSelectionInput `json:"selections" binding:"required,min=1,dive"`
}

// ReturnSelectionInput is one unit selected for return
type ReturnSelectionInput struct {
	StockUnitID  string `json:"stockUnitId" binding:"required,uuid"`
	TargetStatus string `json:"targetStatus" binding:"required"`
}

// ToggleLineRequest applies the line-level select-all gesture. The
// echoed selections may still carry an empty target status, the
// default is applied when the return is attached.
type ToggleLineRequest struct {
	ItemID     string               `json:"itemId" binding:"required,uuid"`
	Selections []LineSelectionInput `json:"selections" binding:"omitempty,dive"`
}

// LineSelectionInput is one selection echoed through the toggle gesture
type LineSelectionInput struct {
	StockUnitID  string `json:"stockUnitId" binding:"required,uuid"`
	TargetStatus string `json:"targetStatus"`
}

// Create opens a new empty sale with a generated invoice number
func (h *SaleHandler) Create(c *gin.Context) {
	resp, err := h.saleService.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a sale by id, documentId or invoice number
func (h *SaleHandler) Get(c *gin.Context) {
	resp, err := h.saleService.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Void discards an unpaid sale
func (h *SaleHandler) Void(c *gin.Context) {
	if err := h.saleService.Void(c.Request.Context(), c.Param("ref")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns sales with pagination
func (h *SaleHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, sales, filter, total)
}

// AddStockItem rings up a stock unit onto the sale
func (h *SaleHandler) AddStockItem(c *gin.Context) {
	var req AddStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.AddStockItem(c.Request.Context(), c.Param("ref"), req.UnitRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddNonStockItem adds a free-form line to the sale
func (h *SaleHandler) AddNonStockItem(c *gin.Context) {
	var req AddNonStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.AddNonStockItem(c.Request.Context(), c.Param("ref"), saleapp.AddNonStockItemRequest{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetItemDiscount sets a line's discount percent
func (h *SaleHandler) SetItemDiscount(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.SetItemDiscount(c.Request.Context(), c.Param("ref"), index, req.Percent)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdjustItemDiscount nudges a line's discount percent
func (h *SaleHandler) AdjustItemDiscount(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	var req AdjustDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.AdjustItemDiscount(c.Request.Context(), c.Param("ref"), index, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetItemQuantity changes a non-stock line's quantity
func (h *SaleHandler) SetItemQuantity(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.SetItemQuantity(c.Request.Context(), c.Param("ref"), index, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetItemOffer toggles offer pricing on a line
func (h *SaleHandler) SetItemOffer(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	var req SetOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.SetItemOffer(c.Request.Context(), c.Param("ref"), index, req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem removes a line from the sale
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	resp, err := h.saleService.RemoveItem(c.Request.Context(), c.Param("ref"), index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetCustomer attaches or clears the customer on a sale
func (h *SaleHandler) SetCustomer(c *gin.Context) {
	var req SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.saleService.SetCustomer(c.Request.Context(), c.Param("ref"), saleapp.SetCustomerRequest{
		CustomerID: req.CustomerID,
		Name:       req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Checkout settles the sale: payments must cover the amount due and
// every stock-backed unit transitions to Sold all-or-nothing
func (h *SaleHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payments := make([]saleapp.PaymentInput, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = saleapp.PaymentInput{Method: p.Method, Amount: p.Amount}
	}
	resp, err := h.saleService.Checkout(c.Request.Context(), c.Param("ref"), payments)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LookupReturnable returns a prior sale with per-unit return eligibility
func (h *SaleHandler) LookupReturnable(c *gin.Context) {
	resp, err := h.exchangeService.Lookup(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ToggleLineSelection applies the select-all gesture for one line of a
// returnable sale and returns the updated selection list
func (h *SaleHandler) ToggleLineSelection(c *gin.Context) {
	var req ToggleLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	current := make([]saleapp.ReturnSelectionInput, len(req.Selections))
	for i, sel := range req.Selections {
		current[i] = saleapp.ReturnSelectionInput{
			StockUnitID:  sel.StockUnitID,
			TargetStatus: sel.TargetStatus,
		}
	}
	selections, err := h.exchangeService.ToggleLineSelection(c.Request.Context(), c.Param("ref"), req.ItemID, current)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, selections)
}

// AttachReturn attaches selected return units as credit on the sale
func (h *SaleHandler) AttachReturn(c *gin.Context) {
	var req AttachReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	selections := make([]saleapp.ReturnSelectionInput, len(req.Selections))
	for i, sel := range req.Selections {
		selections[i] = saleapp.ReturnSelectionInput{
			StockUnitID:  sel.StockUnitID,
			TargetStatus: sel.TargetStatus,
		}
	}
	resp, err := h.exchangeService.AttachReturn(c.Request.Context(), c.Param("ref"), req.SourceRef, selections)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CommitReturn commits the attached return unit by unit. Units are
// independent: a conflict on one never rolls back the others, so the
// response is a per-unit outcome list.
func (h *SaleHandler) CommitReturn(c *gin.Context) {
	outcomes, err := h.exchangeService.CommitReturn(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcomes)
}
