package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of a sale
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

// Payment is one recorded payment against a sale
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method     string          `gorm:"type:varchar(30);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedAt time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "sale_payments"
}

// Totals is the derived money view of a sale. It is recomputed from
// the line items on demand, never stored, so computing it twice
// without a mutation always yields identical values.
type Totals struct {
	Subtotal            decimal.Decimal
	DiscountTotal       decimal.Decimal
	Tax                 decimal.Decimal
	ExchangeReturnTotal decimal.Decimal
	Total               decimal.Decimal
	AmountDue           decimal.Decimal
}

// Sale is the aggregate root for an in-progress or completed sale.
// It owns its line items, payments and at most one exchange return.
// Once paid the sale is locked: every mutating operation fails with
// SALE_LOCKED.
type Sale struct {
	shared.BaseAggregateRoot
	InvoiceNumber string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"` // nil means walk-in
	CustomerName  string     `gorm:"type:varchar(200)"`

	Items          []SaleLineItem  `gorm:"foreignKey:SaleID;references:ID"`
	Payments       []Payment       `gorm:"foreignKey:SaleID;references:ID"`
	ExchangeReturn *ExchangeReturn `gorm:"foreignKey:SaleID;references:ID"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'Unpaid'"`
	PaidAt        *time.Time

	// Dirty tracks unsaved in-memory mutations; it gates the save
	// affordance and is never persisted.
	Dirty bool `gorm:"-"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates an empty unpaid sale for a walk-in customer
func NewSale(invoiceNumber string) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewValidationError("Invoice number cannot exceed 50 characters")
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		Items:             make([]SaleLineItem, 0),
		Payments:          make([]Payment, 0),
		PaymentStatus:     PaymentStatusUnpaid,
	}, nil
}

// IsLocked reports whether the sale has been paid and is immutable
func (s *Sale) IsLocked() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

func (s *Sale) guardUnlocked() error {
	if s.IsLocked() {
		return shared.ErrSaleLocked
	}
	return nil
}

func (s *Sale) markDirty() {
	s.Dirty = true
	s.UpdatedAt = time.Now()
}

// MarkSaved clears the dirty flag after a successful persistence write
func (s *Sale) MarkSaved() {
	s.Dirty = false
}

// AddStockItem adds a line backed by a tracked stock unit. Fails with
// UNIT_UNAVAILABLE unless the unit is InStock or Reserved, and rejects
// a unit already present on the sale. The item list is unchanged on
// any failure.
func (s *Sale) AddStockItem(unit *inventory.StockUnit, taxRate decimal.Decimal) (*SaleLineItem, error) {
	if err := s.guardUnlocked(); err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, shared.NewValidationError("Stock unit is required")
	}
	for idx := range s.Items {
		if s.Items[idx].StockUnitID != nil && *s.Items[idx].StockUnitID == unit.ID {
			return nil, shared.NewValidationError("Stock unit is already on this sale")
		}
	}

	item, err := NewStockBackedItem(s.ID, unit, taxRate)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.markDirty()
	return item, nil
}

// AddNonStockItem adds a free-form line with operator-entered values
func (s *Sale) AddNonStockItem(name string, unitPrice valueobject.Money, quantity int, taxRate decimal.Decimal) (*SaleLineItem, error) {
	if err := s.guardUnlocked(); err != nil {
		return nil, err
	}

	item, err := NewNonStockItem(s.ID, name, unitPrice, quantity, taxRate)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.markDirty()
	return item, nil
}

// UpdateItem applies a mutator to the line at index. The mutator
// receives a copy; only when it succeeds does the copy replace the
// line, so a failed mutation leaves the sale exactly as it was.
// One mutation, one recomputation.
func (s *Sale) UpdateItem(index int, mutate func(*SaleLineItem) error) error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.Items) {
		return shared.NewValidationError(fmt.Sprintf("No line item at index %d", index))
	}

	candidate := s.Items[index]
	if err := mutate(&candidate); err != nil {
		return err
	}

	s.Items[index] = candidate
	s.markDirty()
	return nil
}

// RemoveItem removes the line at index
func (s *Sale) RemoveItem(index int) error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.Items) {
		return shared.NewValidationError(fmt.Sprintf("No line item at index %d", index))
	}

	s.Items = append(s.Items[:index], s.Items[index+1:]...)
	s.markDirty()
	return nil
}

// SetCustomer attaches a customer to the sale; nil id means walk-in
func (s *Sale) SetCustomer(customerID *uuid.UUID, name string) error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if customerID != nil && *customerID == uuid.Nil {
		return shared.NewValidationError("Customer ID cannot be the zero UUID")
	}

	s.CustomerID = customerID
	s.CustomerName = name
	s.markDirty()
	return nil
}

// AddPayment records a payment against the sale
func (s *Sale) AddPayment(method string, amount valueobject.Money) error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if method == "" {
		return shared.NewValidationError("Payment method cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("Payment amount must be positive")
	}

	s.Payments = append(s.Payments, Payment{
		ID:         uuid.New(),
		SaleID:     s.ID,
		Method:     method,
		Amount:     amount.Amount(),
		ReceivedAt: time.Now(),
	})
	s.markDirty()
	return nil
}

// PaymentTotal is the sum of all recorded payments
func (s *Sale) PaymentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// SetExchangeReturn attaches the exchange return credited to this sale.
// A sale carries at most one; setting replaces any previous one.
func (s *Sale) SetExchangeReturn(er *ExchangeReturn) error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if er == nil {
		return shared.NewValidationError("Exchange return is required")
	}
	if er.SourceSaleID == s.ID {
		return shared.NewValidationError("A sale cannot take an exchange return against itself")
	}

	er.SaleID = s.ID
	s.ExchangeReturn = er
	s.markDirty()
	return nil
}

// ClearExchangeReturn detaches the exchange return
func (s *Sale) ClearExchangeReturn() error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	s.ExchangeReturn = nil
	s.markDirty()
	return nil
}

// Totals derives the money view of the sale from its lines. Amount due
// is floored at zero: an exchange credit larger than the new sale is
// display-only and never a debt to the customer.
func (s *Sale) Totals() Totals {
	t := Totals{
		Subtotal:            decimal.Zero,
		DiscountTotal:       decimal.Zero,
		Tax:                 decimal.Zero,
		ExchangeReturnTotal: decimal.Zero,
	}
	for idx := range s.Items {
		t.Subtotal = t.Subtotal.Add(s.Items[idx].Subtotal())
		t.DiscountTotal = t.DiscountTotal.Add(s.Items[idx].DiscountAmount())
		t.Tax = t.Tax.Add(s.Items[idx].Tax())
	}
	if s.ExchangeReturn != nil {
		t.ExchangeReturnTotal = s.ExchangeReturn.TotalRefund()
	}

	t.Total = t.Subtotal.Sub(t.DiscountTotal).Add(t.Tax)
	t.AmountDue = t.Total.Sub(t.ExchangeReturnTotal)
	if t.AmountDue.IsNegative() {
		t.AmountDue = decimal.Zero
	}
	return t
}

// StockUnitIDs returns the stock units consumed by this sale's lines,
// in line order.
func (s *Sale) StockUnitIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Items))
	for idx := range s.Items {
		if s.Items[idx].StockUnitID != nil {
			ids = append(ids, *s.Items[idx].StockUnitID)
		}
	}
	return ids
}

// MarkPaid locks the sale. Payments must cover the amount due; the
// checkout protocol calls this only after every stock-backed unit has
// been committed to Sold.
func (s *Sale) MarkPaid() error {
	if err := s.guardUnlocked(); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return shared.NewValidationError("Cannot check out a sale without items")
	}

	due := s.Totals().AmountDue
	if s.PaymentTotal().LessThan(due) {
		return shared.NewValidationError(fmt.Sprintf(
			"Payments (%s) do not cover the amount due (%s)",
			s.PaymentTotal().StringFixed(2), due.StringFixed(2)))
	}

	now := time.Now()
	s.PaymentStatus = PaymentStatusPaid
	s.PaidAt = &now
	s.markDirty()
	s.IncrementVersion()
	return nil
}
