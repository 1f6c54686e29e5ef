package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=200"`
	SKU            string   `json:"sku" binding:"required,min=1,max=50"`
	Barcode        string   `json:"barcode" binding:"max=50"`
	CostPrice      float64  `json:"costPrice" binding:"min=0"`
	SellingPrice   float64  `json:"sellingPrice" binding:"min=0"`
	OfferPrice     float64  `json:"offerPrice" binding:"min=0"`
	BundleUnits    int      `json:"bundleUnits" binding:"omitempty,min=1"`
	IsExchangeable *bool    `json:"isExchangeable"`
	IsReturnable   *bool    `json:"isReturnable"`
	TaxRate        *float64 `json:"taxRate" binding:"omitempty,min=0,max=1"`
}

// UpdatePricesRequest reprices a product. Already-received stock
// units keep their receipt-time snapshots.
type UpdatePricesRequest struct {
	CostPrice    float64 `json:"costPrice" binding:"min=0"`
	SellingPrice float64 `json:"sellingPrice" binding:"min=0"`
	OfferPrice   float64 `json:"offerPrice" binding:"min=0"`
}

// Create creates a new catalog product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		Name:           req.Name,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		CostPrice:      req.CostPrice,
		SellingPrice:   req.SellingPrice,
		OfferPrice:     req.OfferPrice,
		BundleUnits:    req.BundleUnits,
		IsExchangeable: req.IsExchangeable,
		IsReturnable:   req.IsReturnable,
		TaxRate:        req.TaxRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Resolve returns a product by id, documentId, SKU or barcode
func (h *ProductHandler) Resolve(c *gin.Context) {
	resp, err := h.productService.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns catalog products with pagination
func (h *ProductHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, products, filter, total)
}

// UpdatePrices reprices a product and invalidates its cache entries
func (h *ProductHandler) UpdatePrices(c *gin.Context) {
	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.productService.UpdatePrices(c.Request.Context(), c.Param("ref"),
		req.CostPrice, req.SellingPrice, req.OfferPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
