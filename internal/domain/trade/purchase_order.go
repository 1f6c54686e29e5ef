package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the status of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusDraft             PurchaseStatus = "Draft"
	PurchaseStatusPending           PurchaseStatus = "Pending"
	PurchaseStatusSubmitted         PurchaseStatus = "Submitted"
	PurchaseStatusPartiallyReceived PurchaseStatus = "Partially Received"
	PurchaseStatusReceived          PurchaseStatus = "Received"
	PurchaseStatusClosed            PurchaseStatus = "Closed"
	PurchaseStatusCancelled         PurchaseStatus = "Cancelled"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusDraft, PurchaseStatusPending, PurchaseStatusSubmitted,
		PurchaseStatusPartiallyReceived, PurchaseStatusReceived,
		PurchaseStatusClosed, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// Receivable reports whether goods may be received in this status
func (s PurchaseStatus) Receivable() bool {
	return s == PurchaseStatusSubmitted || s == PurchaseStatusPartiallyReceived
}

// PurchaseLineItem is one ordered product on a purchase order
type PurchaseLineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"type:varchar(50);not null"`
	OrderedQuantity  int             `gorm:"not null"`
	ReceivedQuantity int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BundleUnits      int             `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (PurchaseLineItem) TableName() string {
	return "purchase_line_items"
}

// RemainingQuantity is the quantity still outstanding on the line
func (i *PurchaseLineItem) RemainingQuantity() int {
	return i.OrderedQuantity - i.ReceivedQuantity
}

// IsFullyReceived reports whether the line has no outstanding quantity
func (i *PurchaseLineItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.OrderedQuantity
}

// PurchaseOrder is the aggregate root for purchase intake. Receiving
// converts ordered quantities into tracked stock units one by one;
// the order status follows the received totals.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PurchaseNumber string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierName   string             `gorm:"type:varchar(200);not null"`
	Items          []PurchaseLineItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Status         PurchaseStatus     `gorm:"type:varchar(20);not null;default:'Draft'"`
	SubmittedAt    *time.Time
	ClosedAt       *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(purchaseNumber, supplierName string) (*PurchaseOrder, error) {
	if purchaseNumber == "" {
		return nil, shared.NewValidationError("Purchase number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseNumber:    purchaseNumber,
		SupplierName:      supplierName,
		Items:             make([]PurchaseLineItem, 0),
		Status:            PurchaseStatusDraft,
	}, nil
}

// AddItem adds an ordered line. Only allowed while the order is a draft.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName, sku string, orderedQuantity int, unitPrice valueobject.Money, bundleUnits int) (*PurchaseLineItem, error) {
	if o.Status != PurchaseStatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, "Cannot add items to a non-draft purchase order")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if orderedQuantity < 1 {
		return nil, shared.NewValidationError("Ordered quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if bundleUnits < 1 {
		return nil, shared.NewValidationError("Bundle units must be at least 1")
	}
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return nil, shared.NewValidationError("Product is already on this purchase order")
		}
	}

	now := time.Now()
	item := PurchaseLineItem{
		ID:              uuid.New(),
		PurchaseOrderID: o.ID,
		ProductID:       productID,
		ProductName:     productName,
		SKU:             sku,
		OrderedQuantity: orderedQuantity,
		UnitPrice:       unitPrice.Amount(),
		BundleUnits:     bundleUnits,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = now
	return &o.Items[len(o.Items)-1], nil
}

// MarkPending moves a draft order into the approval queue
func (o *PurchaseOrder) MarkPending() error {
	if o.Status != PurchaseStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot mark purchase order pending in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("Cannot submit a purchase order without items")
	}
	o.Status = PurchaseStatusPending
	o.UpdatedAt = time.Now()
	return nil
}

// Submit sends the order to the supplier, opening it for receiving
func (o *PurchaseOrder) Submit() error {
	if o.Status != PurchaseStatusDraft && o.Status != PurchaseStatusPending {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot submit purchase order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("Cannot submit a purchase order without items")
	}

	now := time.Now()
	o.Status = PurchaseStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	return nil
}

// GetItem returns a line by its ID, or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseLineItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ReceiveLine records quantity received now against a line, bounded by
// the outstanding ordered quantity, then recomputes the order status:
// Received once every line is complete, otherwise Partially Received.
func (o *PurchaseOrder) ReceiveLine(itemID uuid.UUID, quantity int) error {
	if !o.Status.Receivable() {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot receive goods on a purchase order in %s status", o.Status))
	}

	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewValidationError("Purchase line item not found")
	}
	if quantity < 1 {
		return shared.NewValidationError("Receive quantity must be at least 1")
	}
	if quantity > item.RemainingQuantity() {
		return shared.NewValidationError(fmt.Sprintf(
			"Receive quantity %d exceeds outstanding quantity %d", quantity, item.RemainingQuantity()))
	}

	now := time.Now()
	item.ReceivedQuantity += quantity
	item.UpdatedAt = now
	o.recomputeReceivingStatus()
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// recomputeReceivingStatus derives the order status from line totals
func (o *PurchaseOrder) recomputeReceivingStatus() {
	allReceived := true
	for idx := range o.Items {
		if !o.Items[idx].IsFullyReceived() {
			allReceived = false
			break
		}
	}
	if allReceived {
		o.Status = PurchaseStatusReceived
	} else {
		o.Status = PurchaseStatusPartiallyReceived
	}
}

// Close closes a fully received order
func (o *PurchaseOrder) Close() error {
	if o.Status != PurchaseStatusReceived {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot close purchase order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = PurchaseStatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel cancels an order that has not received any goods yet
func (o *PurchaseOrder) Cancel(reason string) error {
	switch o.Status {
	case PurchaseStatusDraft, PurchaseStatusPending, PurchaseStatusSubmitted:
	default:
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot cancel purchase order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

// TotalOrderedAmount is the sum of ordered quantity times unit price
func (o *PurchaseOrder) TotalOrderedAmount() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[idx].OrderedQuantity))))
	}
	return total
}
