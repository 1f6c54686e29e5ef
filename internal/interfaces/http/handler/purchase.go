package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/retailpos/backend/internal/application/trade"
)

// PurchaseHandler handles purchase order API endpoints
type PurchaseHandler struct {
	BaseHandler
	receivingService *tradeapp.ReceivingService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(receivingService *tradeapp.ReceivingService) *PurchaseHandler {
	return &PurchaseHandler{receivingService: receivingService}
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierName string                   `json:"supplierName" binding:"required,min=1,max=200"`
	Items        []PurchaseOrderItemInput `json:"items" binding:"omitempty,dive"`
}

// PurchaseOrderItemInput is one ordered line
type PurchaseOrderItemInput struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unitPrice" binding:"min=0"`
}

// CancelRequest cancels an order before any stock is received
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReceiveRequest records goods received against an order
type ReceiveRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1,dive"`
}

// ReceiveLineInput is the quantity received now for one line
type ReceiveLineInput struct {
	ItemID   string `json:"itemId" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// Create creates a draft purchase order
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	items := make([]tradeapp.CreatePurchaseOrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = tradeapp.CreatePurchaseOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	resp, err := h.receivingService.CreateOrder(c.Request.Context(), tradeapp.CreatePurchaseOrderRequest{
		SupplierName: req.SupplierName,
		Items:        items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a purchase order by id, documentId or purchase number
func (h *PurchaseHandler) Get(c *gin.Context) {
	resp, err := h.receivingService.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns purchase orders with pagination
func (h *PurchaseHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	orders, total, err := h.receivingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, filter, total)
}

// Submit opens the order for receiving
func (h *PurchaseHandler) Submit(c *gin.Context) {
	resp, err := h.receivingService.Submit(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPending moves a draft order into the approval queue
func (h *PurchaseHandler) MarkPending(c *gin.Context) {
	resp, err := h.receivingService.MarkPending(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close closes a fully received order
func (h *PurchaseHandler) Close(c *gin.Context) {
	resp, err := h.receivingService.Close(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels the order before any stock was received
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.receivingService.Cancel(c.Request.Context(), c.Param("ref"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Receive records received quantities line by line. Lines are
// independent: the response carries a per-line outcome with the IDs
// of the stock units spawned for each accepted line.
func (h *PurchaseHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	lines := make([]tradeapp.ReceiveLineInput, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = tradeapp.ReceiveLineInput{ItemID: line.ItemID, Quantity: line.Quantity}
	}
	resp, err := h.receivingService.Receive(c.Request.Context(), c.Param("ref"), tradeapp.ReceiveRequest{Lines: lines})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
