package trade

import (
	"github.com/retailpos/backend/internal/domain/trade"
)

// CreatePurchaseOrderItemInput is one ordered line in a create request
type CreatePurchaseOrderItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierName string                         `json:"supplierName"`
	Items        []CreatePurchaseOrderItemInput `json:"items"`
}

// ReceiveLineInput is the quantity received now for one line
type ReceiveLineInput struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// ReceiveRequest records goods received against an order
type ReceiveRequest struct {
	Lines []ReceiveLineInput `json:"lines"`
}

// ReceiveLineOutcome is the per-line result of a receiving request
type ReceiveLineOutcome struct {
	ItemID       string   `json:"itemId"`
	Quantity     int      `json:"quantity"`
	OK           bool     `json:"ok"`
	Message      string   `json:"message,omitempty"`
	StockUnitIDs []string `json:"stockUnitIds,omitempty"`
}

// ReceiveResponse reports the receiving outcome and the updated order
type ReceiveResponse struct {
	Order PurchaseOrderResponse `json:"order"`
	Lines []ReceiveLineOutcome  `json:"lines"`
}

// PurchaseLineItemResponse is the presentation view of an ordered line
type PurchaseLineItemResponse struct {
	ID               string `json:"id"`
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	SKU              string `json:"sku"`
	OrderedQuantity  int    `json:"orderedQuantity"`
	ReceivedQuantity int    `json:"receivedQuantity"`
	UnitPrice        string `json:"unitPrice"`
	BundleUnits      int    `json:"bundleUnits"`
}

// PurchaseOrderResponse is the presentation view of a purchase order
type PurchaseOrderResponse struct {
	ID             string                     `json:"id"`
	DocumentID     string                     `json:"documentId"`
	PurchaseNumber string                     `json:"purchaseNumber"`
	SupplierName   string                     `json:"supplierName"`
	Status         string                     `json:"status"`
	Items          []PurchaseLineItemResponse `json:"items"`
	TotalOrdered   string                     `json:"totalOrdered"`
}

// ToPurchaseOrderResponse maps a purchase order to its presentation view
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseLineItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		items = append(items, PurchaseLineItemResponse{
			ID:               item.ID.String(),
			ProductID:        item.ProductID.String(),
			ProductName:      item.ProductName,
			SKU:              item.SKU,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitPrice:        item.UnitPrice.StringFixed(2),
			BundleUnits:      item.BundleUnits,
		})
	}
	return PurchaseOrderResponse{
		ID:             order.ID.String(),
		DocumentID:     order.DocumentID,
		PurchaseNumber: order.PurchaseNumber,
		SupplierName:   order.SupplierName,
		Status:         order.Status.String(),
		Items:          items,
		TotalOrdered:   order.TotalOrderedAmount().StringFixed(2),
	}
}
