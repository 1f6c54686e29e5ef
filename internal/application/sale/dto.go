package sale

import (
	"github.com/retailpos/backend/internal/domain/sale"
)

// AddNonStockItemRequest carries operator-entered values for a free-form line
type AddNonStockItemRequest struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// PaymentInput is one payment recorded at checkout
type PaymentInput struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// SetCustomerRequest attaches a customer; empty ID means walk-in
type SetCustomerRequest struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

// LineItemResponse is the presentation view of a sale line.
// All money fields are rounded to 2 decimals here and only here.
type LineItemResponse struct {
	ID                 string  `json:"id"`
	Kind               string  `json:"kind"`
	StockUnitID        *string `json:"stockUnitId,omitempty"`
	Name               string  `json:"name"`
	SKU                string  `json:"sku,omitempty"`
	Quantity           int     `json:"quantity"`
	BundleUnits        int     `json:"bundleUnits"`
	UnitPrice          string  `json:"unitPrice"`
	EffectiveUnitPrice string  `json:"effectiveUnitPrice"`
	OfferActive        bool    `json:"offerActive"`
	DiscountPercent    string  `json:"discountPercent"`
	Subtotal           string  `json:"subtotal"`
	DiscountedSubtotal string  `json:"discountedSubtotal"`
	Tax                string  `json:"tax"`
	Total              string  `json:"total"`
}

// TotalsResponse is the presentation view of the derived totals
type TotalsResponse struct {
	Subtotal            string `json:"subtotal"`
	DiscountTotal       string `json:"discountTotal"`
	Tax                 string `json:"tax"`
	ExchangeReturnTotal string `json:"exchangeReturnTotal"`
	Total               string `json:"total"`
	AmountDue           string `json:"amountDue"`
}

// PaymentResponse is the presentation view of a recorded payment
type PaymentResponse struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Amount string `json:"amount"`
}

// ReturnCandidateResponse is one selected unit of an exchange return
type ReturnCandidateResponse struct {
	StockUnitID   string `json:"stockUnitId"`
	ProductID     string `json:"productId"`
	CreditedPrice string `json:"creditedPrice"`
	TargetStatus  string `json:"targetStatus"`
}

// ExchangeReturnResponse is the presentation view of an exchange return
type ExchangeReturnResponse struct {
	ID                  string                    `json:"id"`
	SourceSaleID        string                    `json:"sourceSaleId"`
	SourceInvoiceNumber string                    `json:"sourceInvoiceNumber"`
	Candidates          []ReturnCandidateResponse `json:"candidates"`
	TotalRefund         string                    `json:"totalRefund"`
}

// SaleResponse is the presentation view of a sale
type SaleResponse struct {
	ID             string                  `json:"id"`
	DocumentID     string                  `json:"documentId"`
	InvoiceNumber  string                  `json:"invoiceNumber"`
	CustomerID     *string                 `json:"customerId,omitempty"`
	CustomerName   string                  `json:"customerName,omitempty"`
	PaymentStatus  string                  `json:"paymentStatus"`
	Items          []LineItemResponse      `json:"items"`
	Payments       []PaymentResponse       `json:"payments"`
	ExchangeReturn *ExchangeReturnResponse `json:"exchangeReturn,omitempty"`
	Totals         TotalsResponse          `json:"totals"`
	Dirty          bool                    `json:"dirty"`
}

// ToLineItemResponse maps a line to its presentation view
func ToLineItemResponse(item *sale.SaleLineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:                 item.ID.String(),
		Kind:               string(item.Kind),
		Name:               item.Name,
		SKU:                item.SKU,
		Quantity:           item.Quantity,
		BundleUnits:        item.BundleUnits,
		UnitPrice:          item.UnitPrice.StringFixed(2),
		EffectiveUnitPrice: item.EffectiveUnitPrice().StringFixed(2),
		OfferActive:        item.OfferActive,
		DiscountPercent:    item.DiscountPercent.String(),
		Subtotal:           item.Subtotal().StringFixed(2),
		DiscountedSubtotal: item.DiscountedSubtotal().StringFixed(2),
		Tax:                item.Tax().StringFixed(2),
		Total:              item.Total().StringFixed(2),
	}
	if item.StockUnitID != nil {
		id := item.StockUnitID.String()
		resp.StockUnitID = &id
	}
	return resp
}

// ToExchangeReturnResponse maps an exchange return to its presentation view
func ToExchangeReturnResponse(er *sale.ExchangeReturn) *ExchangeReturnResponse {
	if er == nil {
		return nil
	}
	candidates := make([]ReturnCandidateResponse, 0, len(er.Candidates))
	for idx := range er.Candidates {
		candidates = append(candidates, ReturnCandidateResponse{
			StockUnitID:   er.Candidates[idx].StockUnitID.String(),
			ProductID:     er.Candidates[idx].ProductID.String(),
			CreditedPrice: er.Candidates[idx].CreditedPrice.StringFixed(2),
			TargetStatus:  string(er.Candidates[idx].TargetStatus),
		})
	}
	return &ExchangeReturnResponse{
		ID:                  er.ID.String(),
		SourceSaleID:        er.SourceSaleID.String(),
		SourceInvoiceNumber: er.SourceInvoiceNumber,
		Candidates:          candidates,
		TotalRefund:         er.TotalRefund().StringFixed(2),
	}
}

// ToSaleResponse maps a sale aggregate to its presentation view
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]LineItemResponse, 0, len(s.Items))
	for idx := range s.Items {
		items = append(items, ToLineItemResponse(&s.Items[idx]))
	}
	payments := make([]PaymentResponse, 0, len(s.Payments))
	for idx := range s.Payments {
		payments = append(payments, PaymentResponse{
			ID:     s.Payments[idx].ID.String(),
			Method: s.Payments[idx].Method,
			Amount: s.Payments[idx].Amount.StringFixed(2),
		})
	}

	totals := s.Totals()
	resp := SaleResponse{
		ID:             s.ID.String(),
		DocumentID:     s.DocumentID,
		InvoiceNumber:  s.InvoiceNumber,
		CustomerName:   s.CustomerName,
		PaymentStatus:  string(s.PaymentStatus),
		Items:          items,
		Payments:       payments,
		ExchangeReturn: ToExchangeReturnResponse(s.ExchangeReturn),
		Totals: TotalsResponse{
			Subtotal:            totals.Subtotal.StringFixed(2),
			DiscountTotal:       totals.DiscountTotal.StringFixed(2),
			Tax:                 totals.Tax.StringFixed(2),
			ExchangeReturnTotal: totals.ExchangeReturnTotal.StringFixed(2),
			Total:               totals.Total.StringFixed(2),
			AmountDue:           totals.AmountDue.StringFixed(2),
		},
		Dirty: s.Dirty,
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp
}
