package sale

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// allowedReturnTargets are the statuses the operator may route a
// returned unit to. InStock puts the unit back into saleable stock.
var allowedReturnTargets = map[inventory.UnitStatus]bool{
	inventory.UnitStatusReturned:        true,
	inventory.UnitStatusReturnedDamaged: true,
	inventory.UnitStatusDamaged:         true,
	inventory.UnitStatusInStock:         true,
}

// ReturnCandidate is one selected unit of an exchange return. It
// carries the price the unit was originally sold at, which becomes
// the credit, and the operator-chosen target status.
type ReturnCandidate struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	ExchangeReturnID uuid.UUID            `gorm:"type:uuid;not null;index"`
	SourceItemID     uuid.UUID            `gorm:"type:uuid;not null"`
	StockUnitID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID            `gorm:"type:uuid;not null"`
	CreditedPrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TargetStatus     inventory.UnitStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ReturnCandidate) TableName() string {
	return "return_candidates"
}

// ExchangeReturn is the credit produced by returning units against a
// prior sale. It is owned by the new sale being built and references,
// but does not own, the originating one.
type ExchangeReturn struct {
	shared.BaseEntity
	SaleID              uuid.UUID `gorm:"type:uuid;index"` // owning (new) sale
	SourceSaleID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceInvoiceNumber string    `gorm:"type:varchar(50);not null"`

	Candidates []ReturnCandidate `gorm:"foreignKey:ExchangeReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (ExchangeReturn) TableName() string {
	return "exchange_returns"
}

// NewExchangeReturn creates an empty exchange return against a prior sale
func NewExchangeReturn(sourceSaleID uuid.UUID, sourceInvoiceNumber string) (*ExchangeReturn, error) {
	if sourceSaleID == uuid.Nil {
		return nil, shared.NewValidationError("Source sale ID cannot be empty")
	}
	if sourceInvoiceNumber == "" {
		return nil, shared.NewValidationError("Source invoice number cannot be empty")
	}

	return &ExchangeReturn{
		BaseEntity:          shared.NewBaseEntity(),
		SourceSaleID:        sourceSaleID,
		SourceInvoiceNumber: sourceInvoiceNumber,
		Candidates:          make([]ReturnCandidate, 0),
	}, nil
}

// IsSelected reports whether the unit is already selected for return
func (er *ExchangeReturn) IsSelected(stockUnitID uuid.UUID) bool {
	for idx := range er.Candidates {
		if er.Candidates[idx].StockUnitID == stockUnitID {
			return true
		}
	}
	return false
}

// Select adds a unit to the return. The default target status is
// Returned; the operator may change it per candidate afterwards.
func (er *ExchangeReturn) Select(sourceItemID, stockUnitID, productID uuid.UUID, creditedPrice decimal.Decimal) error {
	if stockUnitID == uuid.Nil {
		return shared.NewValidationError("Stock unit ID cannot be empty")
	}
	if er.IsSelected(stockUnitID) {
		return shared.NewValidationError("Stock unit is already selected for return")
	}
	if creditedPrice.IsNegative() {
		return shared.NewValidationError("Credited price cannot be negative")
	}

	er.Candidates = append(er.Candidates, ReturnCandidate{
		ID:               uuid.New(),
		ExchangeReturnID: er.ID,
		SourceItemID:     sourceItemID,
		StockUnitID:      stockUnitID,
		ProductID:        productID,
		CreditedPrice:    creditedPrice,
		TargetStatus:     inventory.UnitStatusReturned,
	})
	return nil
}

// Deselect removes a unit from the return; unknown units are ignored
func (er *ExchangeReturn) Deselect(stockUnitID uuid.UUID) {
	for idx := range er.Candidates {
		if er.Candidates[idx].StockUnitID == stockUnitID {
			er.Candidates = append(er.Candidates[:idx], er.Candidates[idx+1:]...)
			return
		}
	}
}

// SetTargetStatus chooses where a selected unit goes on commit
func (er *ExchangeReturn) SetTargetStatus(stockUnitID uuid.UUID, target inventory.UnitStatus) error {
	if !allowedReturnTargets[target] {
		return shared.NewValidationError(fmt.Sprintf("%s is not a valid return target status", target))
	}
	for idx := range er.Candidates {
		if er.Candidates[idx].StockUnitID == stockUnitID {
			er.Candidates[idx].TargetStatus = target
			return nil
		}
	}
	return shared.NewValidationError("Stock unit is not selected for return")
}

// TotalRefund is the sum of credited prices over all selected units
func (er *ExchangeReturn) TotalRefund() decimal.Decimal {
	total := decimal.Zero
	for idx := range er.Candidates {
		total = total.Add(er.Candidates[idx].CreditedPrice)
	}
	return total
}
