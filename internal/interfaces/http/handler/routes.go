package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the sale lifecycle and exchange endpoints
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:ref", h.Get)
		sales.DELETE("/:ref", h.Void)
		sales.POST("/:ref/stock-items", h.AddStockItem)
		sales.POST("/:ref/non-stock-items", h.AddNonStockItem)
		sales.PUT("/:ref/items/:index/discount", h.SetItemDiscount)
		sales.PATCH("/:ref/items/:index/discount", h.AdjustItemDiscount)
		sales.PUT("/:ref/items/:index/quantity", h.SetItemQuantity)
		sales.PUT("/:ref/items/:index/offer", h.SetItemOffer)
		sales.DELETE("/:ref/items/:index", h.RemoveItem)
		sales.PUT("/:ref/customer", h.SetCustomer)
		sales.POST("/:ref/checkout", h.Checkout)
		sales.POST("/:ref/exchange-return", h.AttachReturn)
		sales.POST("/:ref/exchange-return/commit", h.CommitReturn)
	}
	rg.GET("/returnable-sales/:ref", h.LookupReturnable)
	rg.POST("/returnable-sales/:ref/toggle-line", h.ToggleLineSelection)
}

// RegisterRoutes mounts the catalog endpoints
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:ref", h.Resolve)
		products.PUT("/:ref/prices", h.UpdatePrices)
	}
}

// RegisterRoutes mounts the stock unit endpoints
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock-units")
	{
		stock.GET("", h.ListByStatus)
		stock.GET("/:ref", h.Get)
	}
	rg.POST("/stock-transitions", h.BulkTransition)
}

// RegisterRoutes mounts the purchase order endpoints
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchase-orders")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/:ref", h.Get)
		purchases.POST("/:ref/pending", h.MarkPending)
		purchases.POST("/:ref/submit", h.Submit)
		purchases.POST("/:ref/close", h.Close)
		purchases.POST("/:ref/cancel", h.Cancel)
		purchases.POST("/:ref/receive", h.Receive)
	}
}
